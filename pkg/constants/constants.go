// Package constants defines shared constants for the truetime application.
package constants

// NTPPort is the standard UDP port for the network time protocol.
const NTPPort = "123"

// NTPPacketSize is the fixed size of an SNTP request and the minimum
// acceptable size of a reply.
const NTPPacketSize = 48

// NTPEpochOffsetSeconds is the number of seconds between the NTP epoch
// (1900-01-01) and the Unix epoch (1970-01-01).
const NTPEpochOffsetSeconds = 2_208_988_800

// RenderLayout is the canonical output format for zoned date-times:
// ISO-like with millisecond precision and an explicit numeric UTC offset.
const RenderLayout = "2006-01-02T15:04:05.000-07:00"
