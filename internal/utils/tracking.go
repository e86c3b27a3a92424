package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	trackingPrefix = "ST"
	trackingMin    = 10000000
	trackingMax    = 99999999
)

// GenerateTrackingNumber returns a shipment tracking number of the form
// "ST" followed by 8 decimal digits. Collision handling is left to the
// caller (the orders table carries a unique index on tracking_number).
func GenerateTrackingNumber() string {
	span := big.NewInt(trackingMax - trackingMin + 1)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(time.Now().UnixNano() % (trackingMax - trackingMin + 1))
	}

	return fmt.Sprintf("%s%d", trackingPrefix, n.Int64()+trackingMin)
}
