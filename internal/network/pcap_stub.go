//go:build !pcap
// +build !pcap

package network

import (
	"context"
	"errors"
)

// ReadPCAPFile is unavailable without the 'pcap' build tag, which requires
// libpcap at build time.
func ReadPCAPFile(ctx context.Context, pcapFile string, udpPort int, handler Handler) error {
	return errors.New("network: PCAP support not built in (rebuild with -tags pcap)")
}
