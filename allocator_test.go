package favilla

import (
	"testing"
)

func TestAlign(t *testing.T) {
	if makeAlignUp(12, 3) != 12 {
		t.Fail()
	}

	if makeAlignUp(10, 3) != 12 {
		t.Fail()
	}

	if makeAlignUp(0, 256) != 0 {
		t.Fail()
	}

	if makeAlignUp(1, 256) != 256 {
		t.Fail()
	}

	// Zero alignment behaves like byte alignment instead of dividing by
	// zero.
	if makeAlignUp(5, 0) != 5 {
		t.Fail()
	}
}

func TestLinearAllocatorZeroAlignment(t *testing.T) {
	a := LinearAllocator{Size: 64}

	sa, err := a.Allocate(8, 0)
	if err != nil || sa.Offset != 0 {
		t.Errorf("unexpected allocation %s %v", sa, err)
	}

	sa, err = a.Allocate(8, 0)
	if err != nil {
		t.Error("failed unaligned allocation")
	}
	if sa.Offset != 8 {
		t.Errorf("unexpected offset %d", sa.Offset)
	}
}

func TestLinearAllocator(t *testing.T) {
	a := LinearAllocator{Size: 1024}

	_, err := a.Allocate(2048, 1)
	if err == nil {
		t.Error("allocation larger than the pool must fail")
	}

	sa, err := a.Allocate(512, 1)
	if err != nil {
		t.Error("failed 512 allocation")
	}
	if sa.Offset != 0 || sa.Size != 512 {
		t.Errorf("unexpected allocation %s", sa)
	}

	_, err = a.Allocate(768, 1)
	if err == nil {
		t.Error("allocation beyond remaining space must fail")
	}

	sa, err = a.Allocate(500, 1)
	if err != nil {
		t.Error("failed 500 allocation")
	}
	if sa.Offset != 512 {
		t.Errorf("unexpected offset %d", sa.Offset)
	}

	_, err = a.Allocate(50, 1)
	if err == nil {
		t.Error("allocation beyond remaining space must fail")
	}

	sa, err = a.Allocate(5, 1)
	if err != nil {
		t.Error("failed 5 allocation")
	}
	if sa.Offset != 1012 {
		t.Errorf("unexpected offset %d", sa.Offset)
	}
}

func TestLinearAllocatorAlignment(t *testing.T) {
	a := LinearAllocator{Size: 1024}

	sa, err := a.Allocate(10, 1)
	if err != nil || sa.Offset != 0 {
		t.Errorf("unexpected allocation %s %v", sa, err)
	}

	sa, err = a.Allocate(10, 256)
	if err != nil {
		t.Error("failed aligned allocation")
	}
	if sa.Offset != 256 {
		t.Errorf("offset %d not aligned up to 256", sa.Offset)
	}

	// The watermark moved to 266 so the next 256-aligned offset is 512.
	sa, err = a.Allocate(512, 256)
	if err != nil {
		t.Error("failed aligned allocation")
	}
	if sa.Offset != 512 {
		t.Errorf("unexpected offset %d", sa.Offset)
	}

	_, err = a.Allocate(1, 256)
	if err == nil {
		t.Error("pool is exhausted, allocation must fail")
	}
}

func TestLinearAllocatorReset(t *testing.T) {
	a := LinearAllocator{Size: 64}

	if _, err := a.Allocate(64, 1); err != nil {
		t.Error("failed full-pool allocation")
	}
	if _, err := a.Allocate(1, 1); err == nil {
		t.Error("pool is exhausted, allocation must fail")
	}

	a.Reset()

	sa, err := a.Allocate(64, 1)
	if err != nil {
		t.Error("allocation after reset must succeed")
	}
	if sa.Offset != 0 {
		t.Errorf("unexpected offset %d after reset", sa.Offset)
	}
}
