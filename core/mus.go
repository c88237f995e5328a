package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// TurnMUS serializes Turn values for persistent storage. Timestamps are
// stored as Unix microseconds; sub-microsecond precision is dropped.
var TurnMUS = turnMUS{}

type turnMUS struct{}

func (turnMUS) Marshal(v Turn, bs []byte) (n int) {
	n = varint.Int.Marshal(int(v.Speaker), bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int64.Marshal(v.Timestamp.UnixMicro(), bs[n:])
	return n
}

func (turnMUS) Unmarshal(bs []byte) (v Turn, n int, err error) {
	speaker, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Speaker = Speaker(speaker)

	var n1 int
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp = time.UnixMicro(micros).UTC()
	return
}

func (turnMUS) Size(v Turn) (size int) {
	size = varint.Int.Size(int(v.Speaker))
	size += ord.String.Size(v.Text)
	size += varint.Int64.Size(v.Timestamp.UnixMicro())
	return size
}

func (turnMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
