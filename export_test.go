package reentry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStreamTrajectory(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan TrajectoryChunk, 2)
	ch <- TrajectoryChunk{
		Satellite: "probe", Seq: 1,
		Segments: []OrbitSegment{{
			Central: "earth",
			Samples: []TrajectorySample{
				{Offset: time.Second, R: []float64{7000, 0, 0}, V: []float64{0, 7.5, 0}, Central: "earth"},
				{Offset: 2 * time.Second, R: []float64{7000, 7.5, 0}, V: []float64{0, 7.5, 0}, Central: "earth"},
			},
		}},
	}
	ch <- TrajectoryChunk{Satellite: "probe", Seq: 1, Done: true}
	close(ch)

	conf := ExportConfig{OutputPath: dir, Filename: "probe"}
	if err := StreamTrajectory(conf, DefaultEpoch, ch); err != nil {
		t.Fatalf("stream: %s", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "traj-probe.csv"))
	if err != nil {
		t.Fatalf("read: %s", err)
	}
	content := string(raw)
	if !strings.Contains(content, "# Frame: earth") {
		t.Fatal("missing frame marker")
	}
	if !strings.Contains(content, "earth,7000.000000,0.000000,0.000000,0.000000,7.500000,0.000000") {
		t.Fatalf("missing sample record:\n%s", content)
	}
	if !strings.Contains(content, "# Propagation end") {
		t.Fatal("missing end marker")
	}
	if lines := strings.Count(content, "\nearth") + strings.Count(content, ",earth,"); lines < 2 {
		t.Fatalf("expected two records:\n%s", content)
	}
}

func TestStreamTrajectoryError(t *testing.T) {
	dir := t.TempDir()
	ch := make(chan TrajectoryChunk, 1)
	ch <- TrajectoryChunk{Satellite: "probe", Seq: 1, Err: errNonFinite}
	close(ch)
	conf := ExportConfig{OutputPath: dir, Filename: "probe"}
	if err := StreamTrajectory(conf, DefaultEpoch, ch); err == nil {
		t.Fatal("terminal error swallowed")
	}
	raw, err := os.ReadFile(filepath.Join(dir, "traj-probe.csv"))
	if err != nil {
		t.Fatalf("read: %s", err)
	}
	if !strings.Contains(string(raw), "# Propagation aborted") {
		t.Fatal("missing abort marker")
	}
}

func TestStreamTrajectoryPropagated(t *testing.T) {
	// End to end: propagate a short arc and export it.
	prop, reg := testPropagator(t, 8)
	earth, _ := reg.Body("earth")
	ch, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, 30*time.Second, 30)
	if err != nil {
		t.Fatalf("request: %s", err)
	}
	dir := t.TempDir()
	if err := StreamTrajectory(ExportConfig{OutputPath: dir, Filename: "leo"}, DefaultEpoch, ch); err != nil {
		t.Fatalf("stream: %s", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "traj-leo.csv"))
	if err != nil {
		t.Fatalf("read: %s", err)
	}
	if got := strings.Count(string(raw), ",earth,"); got != 30 {
		t.Fatalf("expected 30 records, found %d", got)
	}
}
