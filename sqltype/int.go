package sqltype

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

var ErrOutOfRange = errors.New("integer out of range")

// U15, U31 and U63 are non-negative integers that fit the positive range of
// smallint, integer and bigint. The zero value is 0.
type (
	U15 struct{ n uint16 }
	U31 struct{ n uint32 }
	U63 struct{ n uint64 }
)

const (
	maxU15 = math.MaxInt16
	maxU31 = math.MaxInt32
	maxU63 = math.MaxInt64
)

var (
	MaxU15 = U15{maxU15}
	MaxU31 = U31{maxU31}
	MaxU63 = U63{maxU63}
)

func NewU15(n int64) (U15, error) {
	v, err := checked(n, maxU15, "U15")
	return U15{uint16(v)}, err
}

func NewU31(n int64) (U31, error) {
	v, err := checked(n, maxU31, "U31")
	return U31{uint32(v)}, err
}

func NewU63(n int64) (U63, error) {
	v, err := checked(n, maxU63, "U63")
	return U63{v}, err
}

func ParseU15(s string) (U15, error) { return parse(s, NewU15) }
func ParseU31(s string) (U31, error) { return parse(s, NewU31) }
func ParseU63(s string) (U63, error) { return parse(s, NewU63) }

func (u U15) Get() uint16    { return u.n }
func (u U31) Get() uint32    { return u.n }
func (u U63) Get() uint64    { return u.n }
func (u U15) Int() int16     { return int16(u.n) }
func (u U31) Int() int32     { return int32(u.n) }
func (u U63) Int() int64     { return int64(u.n) }
func (u U15) String() string { return strconv.FormatUint(uint64(u.n), 10) }
func (u U31) String() string { return strconv.FormatUint(uint64(u.n), 10) }
func (u U63) String() string { return strconv.FormatUint(u.n, 10) }

// CheckedAdd reports false when the sum leaves the type's range.
func (u U15) CheckedAdd(o U15) (U15, bool) {
	n, ok := add(uint64(u.n), uint64(o.n), maxU15)
	return U15{uint16(n)}, ok
}

func (u U31) CheckedAdd(o U31) (U31, bool) {
	n, ok := add(uint64(u.n), uint64(o.n), maxU31)
	return U31{uint32(n)}, ok
}

func (u U63) CheckedAdd(o U63) (U63, bool) {
	n, ok := add(u.n, o.n, maxU63)
	return U63{n}, ok
}

func (u U15) CheckedSub(o U15) (U15, bool) {
	if o.n > u.n {
		return U15{}, false
	}
	return U15{u.n - o.n}, true
}

func (u U31) CheckedSub(o U31) (U31, bool) {
	if o.n > u.n {
		return U31{}, false
	}
	return U31{u.n - o.n}, true
}

func (u U63) CheckedSub(o U63) (U63, bool) {
	if o.n > u.n {
		return U63{}, false
	}
	return U63{u.n - o.n}, true
}

func (u U15) CheckedMul(o U15) (U15, bool) {
	n, ok := mul(uint64(u.n), uint64(o.n), maxU15)
	return U15{uint16(n)}, ok
}

func (u U31) CheckedMul(o U31) (U31, bool) {
	n, ok := mul(uint64(u.n), uint64(o.n), maxU31)
	return U31{uint32(n)}, ok
}

func (u U63) CheckedMul(o U63) (U63, bool) {
	n, ok := mul(u.n, o.n, maxU63)
	return U63{n}, ok
}

func (u U15) SaturatingAdd(o U15) U15 {
	if n, ok := u.CheckedAdd(o); ok {
		return n
	}
	return MaxU15
}

func (u U31) SaturatingAdd(o U31) U31 {
	if n, ok := u.CheckedAdd(o); ok {
		return n
	}
	return MaxU31
}

func (u U63) SaturatingAdd(o U63) U63 {
	if n, ok := u.CheckedAdd(o); ok {
		return n
	}
	return MaxU63
}

func (u U15) SaturatingSub(o U15) U15 {
	n, _ := u.CheckedSub(o)
	return n
}

func (u U31) SaturatingSub(o U31) U31 {
	n, _ := u.CheckedSub(o)
	return n
}

func (u U63) SaturatingSub(o U63) U63 {
	n, _ := u.CheckedSub(o)
	return n
}

func (u *U15) Scan(src any) error {
	n, err := scanInt(src, maxU15, "U15")
	u.n = uint16(n)
	return err
}

func (u *U31) Scan(src any) error {
	n, err := scanInt(src, maxU31, "U31")
	u.n = uint32(n)
	return err
}

func (u *U63) Scan(src any) error {
	n, err := scanInt(src, maxU63, "U63")
	u.n = n
	return err
}

func (u U15) Value() (driver.Value, error) { return int64(u.n), nil }
func (u U31) Value() (driver.Value, error) { return int64(u.n), nil }
func (u U63) Value() (driver.Value, error) { return int64(u.n), nil }

func (u U15) MarshalJSON() ([]byte, error) { return []byte(u.String()), nil }
func (u U31) MarshalJSON() ([]byte, error) { return []byte(u.String()), nil }
func (u U63) MarshalJSON() ([]byte, error) { return []byte(u.String()), nil }

func (u *U15) UnmarshalJSON(b []byte) error {
	n, err := unmarshalInt(b, maxU15, "U15")
	u.n = uint16(n)
	return err
}

func (u *U31) UnmarshalJSON(b []byte) error {
	n, err := unmarshalInt(b, maxU31, "U31")
	u.n = uint32(n)
	return err
}

func (u *U63) UnmarshalJSON(b []byte) error {
	n, err := unmarshalInt(b, maxU63, "U63")
	u.n = n
	return err
}

func checked(n int64, limit uint64, name string) (uint64, error) {
	if n < 0 || uint64(n) > limit {
		return 0, fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, n, name)
	}
	return uint64(n), nil
}

func parse[U any](s string, fn func(int64) (U, error)) (U, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		var zero U
		return zero, fmt.Errorf("parse %q: %w", s, err)
	}
	return fn(n)
}

// add cannot wrap: both operands are at most limit, and 2*limit fits a uint64.
func add(a, b, limit uint64) (uint64, bool) {
	n := a + b
	if n > limit {
		return 0, false
	}
	return n, true
}

func mul(a, b, limit uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 || lo > limit {
		return 0, false
	}
	return lo, true
}

func scanInt(src any, limit uint64, name string) (uint64, error) {
	var n int64
	switch s := src.(type) {
	case int64:
		n = s
	case int32:
		n = int64(s)
	case int16:
		n = int64(s)
	case []byte:
		parsed, err := strconv.ParseInt(string(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as %s", s, name)
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as %s", s, name)
		}
		n = parsed
	case nil:
		return 0, fmt.Errorf("cannot scan NULL into %s", name)
	default:
		return 0, fmt.Errorf("cannot scan %T into %s", src, name)
	}
	return checked(n, limit, name)
}

func unmarshalInt(b []byte, limit uint64, name string) (uint64, error) {
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return 0, err
	}
	return checked(n, limit, name)
}
