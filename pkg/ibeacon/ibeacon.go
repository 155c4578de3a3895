package ibeacon

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Manufacturer data layout constants.
const (
	// AppleCompanyID is the Bluetooth SIG company identifier for Apple.
	AppleCompanyID uint16 = 0x004C

	// TypeByte and LengthByte prefix the iBeacon payload after the company id.
	TypeByte   byte = 0x02
	LengthByte byte = 0x15

	// PayloadLength is the manufacturer data length including the company id.
	PayloadLength = 25
)

// Parse errors.
var (
	ErrNotIBeacon = errors.New("not an iBeacon advertisement")
	ErrTruncated  = errors.New("truncated iBeacon payload")
)

// Advertisement holds the decoded fields of an iBeacon advertisement together
// with the receive-side context needed downstream.
type Advertisement struct {
	UUID  uuid.UUID
	Major uint16
	Minor uint16

	// Power is the calibrated RSSI at one metre.
	Power int8

	// RSSI is the received signal strength of the observation.
	RSSI int

	// Source is the address the advertisement was received from.
	Source string

	// Name is the advertised local name, or the address when none was sent.
	Name string
}

// Parse decodes manufacturer data into an Advertisement. Only the beacon
// fields are populated; the caller fills RSSI, Source and Name.
func Parse(data []byte) (Advertisement, error) {
	if !HasPrefix(data) {
		return Advertisement{}, ErrNotIBeacon
	}
	if len(data) < PayloadLength {
		return Advertisement{}, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	id, err := uuid.FromBytes(data[4:20])
	if err != nil {
		return Advertisement{}, fmt.Errorf("proximity uuid: %w", err)
	}

	return Advertisement{
		UUID:  id,
		Major: binary.BigEndian.Uint16(data[20:22]),
		Minor: binary.BigEndian.Uint16(data[22:24]),
		Power: int8(data[24]),
	}, nil
}

// HasPrefix reports whether data starts with the Apple company id and the
// iBeacon type/length bytes.
func HasPrefix(data []byte) bool {
	return len(data) >= 4 &&
		binary.LittleEndian.Uint16(data[0:2]) == AppleCompanyID &&
		data[2] == TypeByte &&
		data[3] == LengthByte
}

// Encode builds manufacturer data for the given beacon fields. It is the
// inverse of Parse and is used by simulators and tests.
func Encode(id uuid.UUID, major, minor uint16, power int8) []byte {
	data := make([]byte, PayloadLength)
	binary.LittleEndian.PutUint16(data[0:2], AppleCompanyID)
	data[2] = TypeByte
	data[3] = LengthByte
	copy(data[4:20], id[:])
	binary.BigEndian.PutUint16(data[20:22], major)
	binary.BigEndian.PutUint16(data[22:24], minor)
	data[24] = byte(power)
	return data
}

// Distance estimates the distance in metres from the calibrated power and
// the received RSSI. It returns false when either value is zero.
func (a Advertisement) Distance() (float64, bool) {
	return CalculateDistance(int(a.Power), a.RSSI)
}

// CalculateDistance applies the log-distance curve fitted for iBeacon
// transmitters.
func CalculateDistance(power, rssi int) (float64, bool) {
	if power == 0 || rssi == 0 {
		return 0, false
	}
	ratio := float64(rssi) / float64(power)
	if ratio < 1.0 {
		return math.Pow(ratio, 10), true
	}
	return 0.89976*math.Pow(ratio, 7.7095) + 0.111, true
}
