// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"testing"
)

func TestMonoMixer_Passthrough(t *testing.T) {
	t.Parallel()

	got, err := drain(NewMonoMixer(newRampSource(8000, 1, 5)), 4)
	if err != nil {
		t.Fatalf("drain() error = %v", err)
	}

	want := []float32{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMonoMixer_AveragesChannels(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 3, 4, func(frame, channel int) float32 {
		return float32(channel) // 0, 1, 2 -> average 1
	})
	m := NewMonoMixer(src)

	if m.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", m.Channels())
	}
	if m.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", m.SampleRate())
	}

	got, err := drain(m, 3)
	if err != nil {
		t.Fatalf("drain() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d frames, want 4", len(got))
	}
	for i, v := range got {
		if v != 1 {
			t.Errorf("frame %d = %v, want 1", i, v)
		}
	}
}

func TestMonoMixer_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := NewMonoMixer(newConstantSource(8000, 2, 4, 1)).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestMonoMixer_EOF(t *testing.T) {
	t.Parallel()

	m := NewMonoMixer(newConstantSource(8000, 2, 2, 1))
	buf := make([]float32, 8)

	n, err := m.ReadSamples(buf)
	if n != 2 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v, want 2, io.EOF", n, err)
	}

	n, err = m.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("second ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}
}
