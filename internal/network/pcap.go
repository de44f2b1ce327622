//go:build pcap
// +build pcap

package network

import (
	"context"
	"fmt"
	"log"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ReadPCAPFile replays telemetry packets recorded to a PCAP file, filtering
// for UDP datagrams on the given port and delivering each parsed space
// packet to handler. Only available when building with the 'pcap' tag.
func ReadPCAPFile(ctx context.Context, pcapFile string, udpPort int, handler Handler) error {
	handle, err := pcap.OpenOffline(pcapFile)
	if err != nil {
		return fmt.Errorf("network: opening PCAP file %s: %w", pcapFile, err)
	}
	defer handle.Close()

	filter := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		return fmt.Errorf("network: setting BPF filter %q: %w", filter, err)
	}

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	var delivered, dropped int

	for {
		select {
		case <-ctx.Done():
			log.Printf("[PCAPSource] cancelled after %d packets", delivered)
			return ctx.Err()
		case packet := <-source.Packets():
			if packet == nil {
				log.Printf("[PCAPSource] replay complete: %d packets delivered, %d dropped", delivered, dropped)
				return nil
			}
			udpLayer := packet.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue
			}
			udp := udpLayer.(*layers.UDP)

			pkt, err := ParseDatagram(udp.Payload)
			if err != nil {
				dropped++
				continue
			}
			handler(pkt)
			delivered++
		}
	}
}
