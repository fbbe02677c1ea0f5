package persist

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/segmentio/ksuid"
)

// ZeroAddress is the all-zero Ethereum address. It is the "from" side of mint
// transfers; tokens are never burned so it is never a recipient.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// DBID represents an application-wide unique ID
type DBID string

// CreationTime represents the time a record was created
type CreationTime time.Time

// LastUpdatedTime represents the time a record was last updated
type LastUpdatedTime time.Time

// Address represents an Ethereum address, normalized to its lowercase hex form
type Address string

// TokenID is the ledger-assigned identifier of a token. IDs are sequential
// starting at 1 and are never reused.
type TokenID uint64

// GenerateID generates an application-wide unique ID
func GenerateID() DBID {
	id, err := ksuid.NewRandom()
	if err != nil {
		panic(err)
	}
	return DBID(id.String())
}

func (d DBID) String() string {
	return string(d)
}

// NewAddress normalizes an address string to its lowercase hex representation
func NewAddress(s string) Address {
	return Address(strings.ToLower(s))
}

// IsValid returns true if the address is a well-formed hex Ethereum address
func (a Address) IsValid() bool {
	return common.IsHexAddress(string(a))
}

// IsZero returns true for the empty or all-zero address
func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

func (a Address) String() string {
	return string(a)
}

// UnmarshalJSON normalizes the address while decoding so that two encodings
// of the same address always compare equal
func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*a = NewAddress(s)
	return nil
}

func (t TokenID) String() string {
	return fmt.Sprintf("%d", t)
}

// Time returns the time.Time representation of the CreationTime
func (c CreationTime) Time() time.Time {
	return time.Time(c)
}

// MarshalJSON returns the JSON representation of the CreationTime
func (c CreationTime) MarshalJSON() ([]byte, error) {
	return c.Time().MarshalJSON()
}

// UnmarshalJSON sets the CreationTime from the JSON representation
func (c *CreationTime) UnmarshalJSON(b []byte) error {
	t := time.Time{}
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	*c = CreationTime(t)
	return nil
}

// Time returns the time.Time representation of the LastUpdatedTime
func (l LastUpdatedTime) Time() time.Time {
	return time.Time(l)
}

// MarshalJSON returns the JSON representation of the LastUpdatedTime
func (l LastUpdatedTime) MarshalJSON() ([]byte, error) {
	return l.Time().MarshalJSON()
}

// UnmarshalJSON sets the LastUpdatedTime from the JSON representation
func (l *LastUpdatedTime) UnmarshalJSON(b []byte) error {
	t := time.Time{}
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	*l = LastUpdatedTime(t)
	return nil
}
