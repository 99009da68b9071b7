package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/trailcap/internal/model"
	"github.com/verte-zerg/trailcap/internal/record"
)

var settings = model.ExperimentSettings{MaxPaths: 15, TrainingTrials: 5}

func writeFiles(t *testing.T, dir string, samples []model.Sample, recs []model.TrialRecord) (string, string) {
	t.Helper()
	pathsFile := filepath.Join(dir, "paths.csv")
	propsFile := filepath.Join(dir, "paths_props.csv")
	pf, err := os.Create(pathsFile)
	if err != nil {
		t.Fatalf("create paths file: %v", err)
	}
	if err := record.WritePaths(pf, samples); err != nil {
		t.Fatalf("write paths: %v", err)
	}
	if err := pf.Close(); err != nil {
		t.Fatalf("close paths: %v", err)
	}
	rf, err := os.Create(propsFile)
	if err != nil {
		t.Fatalf("create props file: %v", err)
	}
	if err := record.WriteRecords(rf, recs); err != nil {
		t.Fatalf("write records: %v", err)
	}
	if err := rf.Close(); err != nil {
		t.Fatalf("close props: %v", err)
	}
	return pathsFile, propsFile
}

func rec(trial, methodTrial int, method model.InputMethod) model.TrialRecord {
	return model.TrialRecord{
		Trial:               trial,
		TrialForInputMethod: methodTrial,
		User:                model.UserSettings{InputMethod: method, Major: "Applied Physics", Gender: 1, RightHanded: 1},
		System:              model.SystemSettings{Platform: "Linux", PlatformVersion: "6.8"},
		TargetRadius:        3,
		Delay:               2.5,
	}
}

func TestLoadMissingFilesIsFresh(t *testing.T) {
	dir := t.TempDir()
	snap := Load(filepath.Join(dir, "paths.csv"), filepath.Join(dir, "paths_props.csv"), settings, nil)
	if snap.Complete() || snap.HasPaths || snap.HasProps {
		t.Fatalf("expected fresh snapshot, got %+v", snap)
	}
	if snap.Status != model.FreshStatus() {
		t.Fatalf("expected fresh status, got %+v", snap.Status)
	}
	if snap.LastUser != nil {
		t.Fatal("expected no recovered user settings")
	}
}

func TestLoadReconstructsCounters(t *testing.T) {
	var recs []model.TrialRecord
	var samples []model.Sample
	// 20 mouse trials numbered 5..24 (all past training), method trial
	// numbers 0..19, plus 3 trackpad training trials 0..2.
	for i := 0; i < 3; i++ {
		recs = append(recs, rec(i, i, model.Trackpad))
	}
	for i := 0; i < 20; i++ {
		recs = append(recs, rec(5+i, i, model.Mouse))
		samples = append(samples, model.Sample{Trial: 5 + i, T: 0, X: 0, Y: 0})
	}
	pathsFile, propsFile := writeFiles(t, t.TempDir(), samples, recs)

	snap := Load(pathsFile, propsFile, settings, nil)
	if !snap.Complete() {
		t.Fatal("expected complete history")
	}
	// Only the top 15 mouse trial numbers are eligible, all >= 5.
	if snap.Status.MouseCollected != 15 {
		t.Fatalf("expected 15 collected mouse trials, got %d", snap.Status.MouseCollected)
	}
	if snap.Status.TrackpadCollected != 0 {
		t.Fatalf("expected 0 collected trackpad trials, got %d", snap.Status.TrackpadCollected)
	}
	if snap.Status.LastTrial != 24 {
		t.Fatalf("expected last trial 24, got %d", snap.Status.LastTrial)
	}
	if snap.Status.LastMouseTrial != 19 {
		t.Fatalf("expected last mouse method trial 19, got %d", snap.Status.LastMouseTrial)
	}
	if snap.Status.LastTrackpadTrial != 2 {
		t.Fatalf("expected last trackpad method trial 2, got %d", snap.Status.LastTrackpadTrial)
	}
}

func TestLoadRecoversLastUserSettings(t *testing.T) {
	recs := []model.TrialRecord{rec(0, 0, model.Trackpad), rec(1, 1, model.Mouse)}
	recs[1].User.Major = "Industrial Design"
	samples := []model.Sample{{Trial: 0}}
	pathsFile, propsFile := writeFiles(t, t.TempDir(), samples, recs)

	snap := Load(pathsFile, propsFile, settings, nil)
	if snap.LastUser == nil {
		t.Fatal("expected recovered user settings")
	}
	if snap.LastUser.Major != "Industrial Design" || snap.LastUser.InputMethod != model.Mouse {
		t.Fatalf("expected most recent settings row, got %+v", snap.LastUser)
	}
}

func TestLoadCorruptPropsDegrades(t *testing.T) {
	dir := t.TempDir()
	pathsFile, propsFile := writeFiles(t, dir, []model.Sample{{Trial: 0}}, nil)
	if err := os.WriteFile(propsFile, []byte("trial,oops\n\"unterminated\n"), 0o644); err != nil {
		t.Fatalf("write corrupt props: %v", err)
	}

	warned := false
	snap := Load(pathsFile, propsFile, settings, func(string, ...any) { warned = true })
	if !warned {
		t.Fatal("expected a warning for the corrupt file")
	}
	if snap.HasProps {
		t.Fatal("corrupt properties file should be ignored")
	}
	if !snap.HasPaths {
		t.Fatal("paths file should still be read")
	}
	// Without properties the counters stay fresh.
	if snap.Status != model.FreshStatus() {
		t.Fatalf("expected fresh status, got %+v", snap.Status)
	}
}

func TestLoadPropsOnlyKeepsLastTrial(t *testing.T) {
	dir := t.TempDir()
	_, propsFile := writeFiles(t, dir, nil, []model.TrialRecord{rec(9, 4, model.Mouse)})
	if err := os.Remove(filepath.Join(dir, "paths.csv")); err != nil {
		t.Fatalf("remove paths: %v", err)
	}

	snap := Load(filepath.Join(dir, "paths.csv"), propsFile, settings, nil)
	if snap.Complete() {
		t.Fatal("history should be incomplete without the paths file")
	}
	// The overall trial counter still continues from the props file,
	// but per-method counters are not reconstructed.
	if snap.Status.LastTrial != 9 {
		t.Fatalf("expected last trial 9, got %d", snap.Status.LastTrial)
	}
	if snap.Status.MouseCollected != 0 || snap.Status.LastMouseTrial != -1 {
		t.Fatalf("per-method counters should stay fresh, got %+v", snap.Status)
	}
}
