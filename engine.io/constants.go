package eio

import "time"

const (
	ProtocolVersion = 4

	// Values announced in the simulated OPEN packet.
	DefaultPingInterval = time.Second * 25
	DefaultPingTimeout  = time.Second * 5
)
