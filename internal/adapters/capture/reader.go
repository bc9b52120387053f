package capture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// ErrUnsupportedLinkType is returned for captures that are not raw 802.11 or radiotap.
var ErrUnsupportedLinkType = errors.New("unsupported capture link type")

var pcapngMagic = []byte{0x0A, 0x0D, 0x0D, 0x0A}

// Summary aggregates the management frames found in one capture window.
type Summary struct {
	Packets        int
	Undecodable    int
	DeauthFrames   int
	DisassocFrames int
	Beacons        int
	ProbeResponses int
	BeaconSSIDs    map[string]struct{}
	ProbeSSIDs     map[string]struct{}
}

// RootScanData converts the summary into the analyzer input.
// Probe-only SSIDs are those that answered probes but never appeared in a beacon.
func (s Summary) RootScanData() domain.RootScanData {
	var probeOnly []string
	for ssid := range s.ProbeSSIDs {
		if _, beaconed := s.BeaconSSIDs[ssid]; !beaconed {
			probeOnly = append(probeOnly, ssid)
		}
	}
	sort.Strings(probeOnly)
	return domain.NewRootScanData(s.DeauthFrames+s.DisassocFrames, probeOnly)
}

type packetSource interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// ReadFile summarizes a pcap or pcapng file.
func ReadFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()
	return Read(ctx, f)
}

// Read summarizes a pcap or pcapng stream. A truncated trailing packet ends the read without error.
func Read(ctx context.Context, r io.Reader) (Summary, error) {
	src, err := openSource(r)
	if err != nil {
		return Summary{}, err
	}

	var first gopacket.LayerType
	switch src.LinkType() {
	case layers.LinkTypeIEEE802_11:
		first = layers.LayerTypeDot11
	case layers.LinkTypeIEEE80211Radio:
		first = layers.LayerTypeRadioTap
	default:
		return Summary{}, fmt.Errorf("%w: %s", ErrUnsupportedLinkType, src.LinkType())
	}

	sum := Summary{
		BeaconSSIDs: make(map[string]struct{}),
		ProbeSSIDs:  make(map[string]struct{}),
	}
	for {
		if sum.Packets%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
		}

		data, _, err := src.ReadPacketData()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return sum, fmt.Errorf("read packet %d: %w", sum.Packets+1, err)
		}
		sum.Packets++

		packet := gopacket.NewPacket(data, first, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		sum.add(packet)
	}

	slog.Debug("Capture summarized",
		"packets", sum.Packets,
		"deauth", sum.DeauthFrames,
		"disassoc", sum.DisassocFrames,
		"beacons", sum.Beacons,
		"probe_responses", sum.ProbeResponses)
	return sum, nil
}

func openSource(r io.Reader) (packetSource, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read capture header: %w", err)
	}
	if bytes.Equal(magic, pcapngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("open pcapng: %w", err)
		}
		return ng, nil
	}
	pr, err := pcapgo.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("open pcap: %w", err)
	}
	return pr, nil
}

func (s *Summary) add(packet gopacket.Packet) {
	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		s.Undecodable++
		return
	}
	dot11, ok := dot11Layer.(*layers.Dot11)
	if !ok {
		s.Undecodable++
		return
	}

	switch dot11.Type {
	case layers.Dot11TypeMgmtDeauthentication:
		s.DeauthFrames++
	case layers.Dot11TypeMgmtDisassociation:
		s.DisassocFrames++
	case layers.Dot11TypeMgmtBeacon:
		s.Beacons++
		if ssid := findSSID(frameBody(packet, dot11)); ssid != "" {
			s.BeaconSSIDs[ssid] = struct{}{}
		}
	case layers.Dot11TypeMgmtProbeResp:
		s.ProbeResponses++
		if ssid := findSSID(frameBody(packet, dot11)); ssid != "" {
			s.ProbeSSIDs[ssid] = struct{}{}
		}
	}
}

// frameBody returns the raw 802.11 frame body after the MAC header.
// The walk over it does not depend on gopacket decoding the element chain.
func frameBody(packet gopacket.Packet, dot11 *layers.Dot11) []byte {
	frame := packet.Data()
	if rt, ok := packet.Layer(layers.LayerTypeRadioTap).(*layers.RadioTap); ok {
		if int(rt.Length) > len(frame) {
			return nil
		}
		frame = frame[rt.Length:]
	}
	if len(dot11.Contents) > len(frame) {
		return nil
	}
	return frame[len(dot11.Contents):]
}
