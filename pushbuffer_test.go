package favilla

import (
	"testing"
)

func TestPushBufferGrows(t *testing.T) {
	pb := NewPushBuffer[uint32](4)
	if pb.Len() != 0 {
		t.Errorf("new buffer length = %d, want 0", pb.Len())
	}
	if pb.Cap() != 4 {
		t.Errorf("new buffer capacity = %d, want 4", pb.Cap())
	}

	pass, err := pb.StartPass(0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		pass.Push(uint32(i + 1))
	}
	pass.Finish()

	if pb.Len() != 8 {
		t.Errorf("length after pass = %d, want 8", pb.Len())
	}
	for i := 0; i < 8; i++ {
		if pb.Data[i] != uint32(i+1) {
			t.Errorf("Data[%d] = %v, want %v", i, pb.Data[i], i+1)
		}
	}
}

func TestPushBufferRestartOverwrites(t *testing.T) {
	pb := NewPushBuffer[uint32](4)

	pass, err := pb.StartPass(0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		pass.Push(9)
	}
	pass.Finish()

	pass, err = pb.StartPass(0)
	if err != nil {
		t.Fatal(err)
	}
	pass.Push(42)
	pass.Finish()

	if pb.Len() != 1 {
		t.Errorf("length = %d, want 1", pb.Len())
	}
	if pb.Data[0] != 42 {
		t.Errorf("Data[0] = %v, want 42", pb.Data[0])
	}

	pass, err = pb.StartPass(1)
	if err != nil {
		t.Fatal(err)
	}
	pass.Push(43)
	pass.Finish()

	if pb.Len() != 2 {
		t.Errorf("length = %d, want 2", pb.Len())
	}
	if pb.Data[0] != 42 || pb.Data[1] != 43 {
		t.Errorf("Data = %v", pb.Data[:2])
	}
}

func TestPushBufferPassBounds(t *testing.T) {
	pb := NewPushBuffer[float32](4)

	if _, err := pb.StartPass(420); err == nil {
		t.Error("pass start beyond capacity must fail")
	}

	if _, err := pb.StartPass(-1); err == nil {
		t.Error("negative pass start must fail")
	}

	pass, err := pb.StartPass(0)
	if err != nil {
		t.Fatal(err)
	}
	pass.Finish()

	if pb.Len() != 0 {
		t.Errorf("length after empty pass = %d, want 0", pb.Len())
	}
}
