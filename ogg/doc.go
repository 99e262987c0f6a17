// SPDX-License-Identifier: EPL-2.0

// Package ogg implements the Ogg framing layer needed to demux chained
// Vorbis files.
//
// The package reads pages (capture pattern, header, CRC-32 and segment
// table), reassembles packets that span several pages, and tags every packet
// with the serial number of the logical bitstream it belongs to:
//
//	r := ogg.NewReader(bytes.NewReader(data))
//	for {
//	    pkt, err := r.NextPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // corrupt or truncated page
//	    }
//	    fmt.Println(pkt.Serial, len(pkt.Data))
//	}
//
// # Logical Streams
//
// A physical Ogg stream may carry several logical bitstreams. Chained files
// place them one after another; multiplexed files interleave their pages.
// The Reader keeps a partial-packet buffer per serial, so both layouts are
// reassembled correctly. Deciding what a change of serial means is left to
// the caller.
//
// # Writing Pages
//
// Page.Encode serializes a page and fills in its checksum. It is used by
// tests to build containers in memory.
package ogg
