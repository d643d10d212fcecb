package model

import "time"

// PartitionLayout is the textual form of a partition key.
const PartitionLayout = "2006-01-02"

// PartitionDate is the UTC calendar date a run loads into.
// The zero value is not a valid partition.
type PartitionDate struct {
	t time.Time
}

// PartitionFor returns the partition containing t, evaluated in UTC.
func PartitionFor(t time.Time) PartitionDate {
	u := t.UTC()
	return PartitionDate{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParsePartition parses a YYYY-MM-DD partition key.
func ParsePartition(s string) (PartitionDate, error) {
	t, err := time.Parse(PartitionLayout, s)
	if err != nil {
		return PartitionDate{}, err
	}
	return PartitionDate{t: t}, nil
}

// Time returns midnight UTC of the partition date.
func (d PartitionDate) Time() time.Time {
	return d.t
}

// IsZero reports whether d is the zero partition.
func (d PartitionDate) IsZero() bool {
	return d.t.IsZero()
}

func (d PartitionDate) String() string {
	return d.t.Format(PartitionLayout)
}
