package schedule

import (
	"strings"
	"testing"
)

func consensusData() *Data {
	d := testData(2) // weekdays Mon,Tue; 9 AM - 5 PM; 60 min slots -> 2x8
	d.Others = []string{"grace", "edsger"}
	d.OthersSchedule = [][][]int{
		{{}, {0, 1}, {0, 1}, {}, {}, {}, {}, {0}},
		{{}, {}, {}, {}, {}, {}, {}, {}},
	}
	d.UserSchedule[0][1] = true
	d.UserSchedule[0][2] = true
	d.AbsentReasons = []*string{nil, nil, nil}
	return d
}

func TestBestSlots(t *testing.T) {
	d := consensusData()
	got := BestSlots(d, 5)
	if len(got) != 1 {
		t.Fatalf("len(BestSlots) = %d, want 1", len(got))
	}
	b := got[0]
	if b.DateIndex != 0 || b.FromSlot != 1 || b.ToSlot != 2 || b.Count != 3 {
		t.Errorf("BestSlots[0] = %+v, want run 1..2 in column 0 with count 3", b)
	}
}

func TestBestSlots_Empty(t *testing.T) {
	d := testData(2)
	if got := BestSlots(d, 3); got != nil {
		t.Errorf("BestSlots on empty room = %v, want nil", got)
	}
	if got := BestSlots(consensusData(), 0); got != nil {
		t.Errorf("BestSlots with max 0 = %v, want nil", got)
	}
}

func TestBestSlots_CapsRuns(t *testing.T) {
	d := testData(1)
	// Alternating availability: four separate single-slot runs.
	for _, slot := range []int{0, 2, 4, 6} {
		d.UserSchedule[0][slot] = true
	}
	got := BestSlots(d, 2)
	if len(got) != 2 {
		t.Fatalf("len(BestSlots) = %d, want 2 (capped)", len(got))
	}
}

func TestBestSlot_Describe(t *testing.T) {
	d := consensusData()
	line := BestSlots(d, 1)[0].Describe(d)
	for _, want := range []string{"10:00 AM", "12:00 PM", "3 of 3"} {
		if !strings.Contains(line, want) {
			t.Errorf("Describe() = %q, missing %q", line, want)
		}
	}
}
