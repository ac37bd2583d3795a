package canonical

import "time"

type Point struct {
	X int
	Y int
}

type Shape interface {
	GetArea() float64
	IsVisible() bool
	Scale(f float64)
}

type Event struct {
	At   *time.Time
	Tags []string
}
