package servo

import "testing"

func newTestSink(t *testing.T) (*Sink, *MockWriter) {
	t.Helper()
	profile, err := ProfileByName("inmoov")
	if err != nil {
		t.Fatal(err)
	}
	writer := NewMockWriter()
	return NewSink(profile, writer), writer
}

func TestSinkIdempotence(t *testing.T) {
	sink, writer := newTestSink(t)

	if err := sink.SetAngle(Jaw, 45); err != nil {
		t.Fatal(err)
	}
	if err := sink.SetAngle(Jaw, 45); err != nil {
		t.Fatal(err)
	}

	// Two equal commands, exactly one physical write.
	if got := len(writer.WritesTo(8)); got != 1 {
		t.Errorf("jaw pin received %d writes, want 1", got)
	}
}

func TestSinkClampsToProfileRange(t *testing.T) {
	sink, writer := newTestSink(t)

	if err := sink.SetAngle(LeftEyeX, 999); err != nil {
		t.Fatal(err)
	}
	if got := writer.LastTo(0); got != 145 {
		t.Errorf("left eye x clamped to %d, want 145", got)
	}

	if err := sink.SetAngle(LeftEyeX, -50); err != nil {
		t.Fatal(err)
	}
	if got := writer.LastTo(0); got != 57 {
		t.Errorf("left eye x clamped to %d, want 57", got)
	}
}

func TestSinkRejectsUnwiredChannel(t *testing.T) {
	profile, _ := ProfileByName("simple")
	sink := NewSink(profile, NewMockWriter())

	if err := sink.SetAngle(LeftUpperLid, 90); err == nil {
		t.Error("expected error for channel missing from simple layout")
	}
}

func TestSinkRetriesAfterWriteFailure(t *testing.T) {
	sink, writer := newTestSink(t)
	writer.FailNext(8, 1)

	if err := sink.SetAngle(Jaw, 90); err == nil {
		t.Fatal("expected injected bus failure")
	}
	if _, ok := sink.LastAngle(Jaw); ok {
		t.Error("failed write must not update the last-angle table")
	}

	// Same value again is not a duplicate of a successful write,
	// so the sink retries.
	if err := sink.SetAngle(Jaw, 90); err != nil {
		t.Fatal(err)
	}
	if got := writer.LastTo(8); got != 90 {
		t.Errorf("retry wrote %d, want 90", got)
	}
	if got := sink.ErrorCount(); got != 1 {
		t.Errorf("error count = %d, want 1", got)
	}
}

func TestSinkObserver(t *testing.T) {
	sink, _ := newTestSink(t)

	var seen []AngleCommand
	sink.OnCommand(func(cmd AngleCommand) { seen = append(seen, cmd) })

	sink.SetAngle(Jaw, 30)
	sink.SetAngle(Jaw, 30) // dropped, must not reach the observer

	if len(seen) != 1 {
		t.Fatalf("observer saw %d commands, want 1", len(seen))
	}
	if seen[0].Channel != Jaw || seen[0].Angle != 30 {
		t.Errorf("observer saw %v/%d", seen[0].Channel, seen[0].Angle)
	}
}

func TestSinkRestPose(t *testing.T) {
	sink, writer := newTestSink(t)

	// Leave the head mid-expression, then rest it.
	sink.SetAngle(Jaw, 80)
	sink.SetAngle(LeftEyeX, 120)
	sink.Rest()

	if got, _ := sink.LastAngle(Jaw); got != 0 {
		t.Errorf("jaw rest angle = %d, want 0 (closed)", got)
	}
	if got, _ := sink.LastAngle(LeftEyeX); got != 90 {
		t.Errorf("left eye x rest angle = %d, want 90", got)
	}
	if got, _ := sink.LastAngle(LeftUpperLid); got != 70 {
		t.Errorf("left upper lid rest angle = %d, want 70 (open)", got)
	}

	if got := writer.LastTo(8); got != 0 {
		t.Errorf("jaw pin last write = %d, want 0", got)
	}
}

func TestSinkSnapshot(t *testing.T) {
	sink, _ := newTestSink(t)
	sink.SetAngle(Jaw, 42)

	snap := sink.Snapshot()
	if snap["jaw"] != 42 {
		t.Errorf("snapshot jaw = %d, want 42", snap["jaw"])
	}
}
