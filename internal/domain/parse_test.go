package domain

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("12:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tod.Hour != 12 || tod.Minute != 0 {
		t.Fatalf("got %+v", tod)
	}

	tod, err = ParseTimeOfDay(" 9:05 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tod.String() != "09:05" {
		t.Fatalf("got %s", tod)
	}

	for _, s := range []string{"", "noon", "24:00", "12:60", "12", "1:2:3"} {
		if _, err := ParseTimeOfDay(s); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("%q: want ErrInvalidTime, got %v", s, err)
		}
	}
}

func TestParseCampus(t *testing.T) {
	for _, s := range []string{"1", "2", "3", "4", " 3 "} {
		if _, err := ParseCampus(s); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
	for _, s := range []string{"0", "5", "", "one"} {
		if _, err := ParseCampus(s); !errors.Is(err, ErrInvalidCampus) {
			t.Fatalf("%q: want ErrInvalidCampus, got %v", s, err)
		}
	}
}
