package idwrap

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalidID is returned when an identifier received from a client cannot
// be decoded.
var ErrInvalidID = errors.New("invalid id")

type IDWrap struct {
	ulid ulid.ULID
}

func New(ulid ulid.ULID) IDWrap {
	return IDWrap{ulid: ulid}
}

func NewNow() IDWrap {
	return IDWrap{ulid: ulid.Make()}
}

// NewText parses the canonical 26 character representation. The returned
// error always wraps ErrInvalidID.
func NewText(ulidString string) (IDWrap, error) {
	id, err := ulid.ParseStrict(ulidString)
	if err != nil {
		return IDWrap{}, fmt.Errorf("%w %q: %v", ErrInvalidID, ulidString, err)
	}
	return IDWrap{ulid: id}, nil
}

func NewTextMust(ulidString string) IDWrap {
	id, err := NewText(ulidString)
	if err != nil {
		panic(err)
	}
	return id
}

func NewFromBytes(data []byte) (IDWrap, error) {
	ulidData := ulid.ULID{}
	if err := ulidData.UnmarshalBinary(data); err != nil {
		return IDWrap{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return IDWrap{ulid: ulidData}, nil
}

func (u IDWrap) String() string {
	return u.ulid.String()
}

func (u IDWrap) Bytes() []byte {
	return u.ulid[:]
}

func (u IDWrap) Compare(id IDWrap) int {
	return u.ulid.Compare(id.ulid)
}

func (u IDWrap) IsZero() bool {
	return u.ulid == ulid.ULID{}
}

func (u IDWrap) Time() time.Time {
	return ulid.Time(u.ulid.Time())
}

// SQL driver value
func (u IDWrap) Value() (driver.Value, error) {
	return u.ulid[:], nil
}

func (u *IDWrap) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return u.ulid.UnmarshalBinary(v)
	case string:
		return u.ulid.UnmarshalBinary([]byte(v))
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidID)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidID, value)
	}
}
