package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/trailcap/internal/model"
)

func sampleRecord(trial int) model.TrialRecord {
	return model.TrialRecord{
		Trial:               trial,
		TrialForInputMethod: trial,
		User: model.UserSettings{
			UseTueLaptop:        1,
			InputMethod:         model.Mouse,
			MouseSpeed:          1,
			MouseAccuracy:       1,
			TrackpadSpeedSet:    1,
			RightHanded:         1,
			RightMouseHanded:    1,
			RightTrackpadHanded: 0,
			Major:               "Computer Science",
			Gender:              2,
		},
		System: model.SystemSettings{
			TouchpadSpeed:     -1,
			TouchpadHonor:     -1,
			MouseSpeedRec:     10,
			MouseThreshold1:   6,
			MouseThreshold2:   10,
			MouseAcceleration: 1,
			Platform:          "Linux",
			PlatformVersion:   "6.8",
			ScreenWidth:       120,
			ScreenHeight:      40,
		},
		TargetX:      17,
		TargetY:      -9,
		TargetRadius: 3,
		Delay:        2.503,
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	in := []model.TrialRecord{sampleRecord(0), sampleRecord(1)}
	var buf bytes.Buffer
	if err := WriteRecords(&buf, in); err != nil {
		t.Fatalf("write records: %v", err)
	}
	out, err := ReadRecords(&buf)
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("record %d changed in round trip:\n in: %+v\nout: %+v", i, in[i], out[i])
		}
	}
}

func TestPathsRoundTrip(t *testing.T) {
	in := []model.Sample{
		{Trial: 0, T: 0, X: 0, Y: 0},
		{Trial: 0, T: 0.123456, X: -4.5, Y: 12},
		{Trial: 1, T: 0.8, X: 100, Y: 50},
	}
	var buf bytes.Buffer
	if err := WritePaths(&buf, in); err != nil {
		t.Fatalf("write paths: %v", err)
	}
	out, err := ReadPaths(&buf)
	if err != nil {
		t.Fatalf("read paths: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d changed in round trip: %+v vs %+v", i, in[i], out[i])
		}
	}
}

func TestReadRecordsLegacyColumns(t *testing.T) {
	// Files written before the per-device hand questions lack three
	// columns; those fields must default to -1.
	header := "trial,trial_for_input_method,use_tue_laptop,input_method,mouse_speed,mouse_accuracy,right_handed,major,gender,touchpad_speed,touchpad_honor,mouse_speed_rec,mouse_threshold_1,mouse_threshold_2,mouse_acceleration,platform,platform_version,screen_width,screen_height,target_x,target_y,target_radius,delay"
	row := "3,2,1,1,1,1,1,Data Science,0,-1,-1,10,6,10,1,Windows,10,1920,1080,50,-20,6,2.1"
	recs, err := ReadRecords(strings.NewReader(header + "\n" + row + "\n"))
	if err != nil {
		t.Fatalf("read legacy records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.User.TrackpadSpeedSet != -1 || rec.User.RightMouseHanded != -1 || rec.User.RightTrackpadHanded != -1 {
		t.Fatalf("legacy fields should default to -1, got %+v", rec.User)
	}
	if rec.Trial != 3 || rec.User.Major != "Data Science" || rec.TargetRadius != 6 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestReadRecordsFloatIntegers(t *testing.T) {
	// pandas writes integer columns as floats after concat with NaN.
	var buf bytes.Buffer
	if err := WriteRecords(&buf, []model.TrialRecord{sampleRecord(5)}); err != nil {
		t.Fatalf("write records: %v", err)
	}
	text := strings.Replace(buf.String(), "\n5,5,", "\n5.0,5.0,", 1)
	recs, err := ReadRecords(strings.NewReader(text))
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if recs[0].Trial != 5 || recs[0].TrialForInputMethod != 5 {
		t.Fatalf("float-coded integers not handled: %+v", recs[0])
	}
}

func TestReadPathsRejectsMissingColumn(t *testing.T) {
	if _, err := ReadPaths(strings.NewReader("trial,t,x\n1,0,0\n")); err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestReadRecordsRejectsGarbage(t *testing.T) {
	if _, err := ReadRecords(strings.NewReader("not,a\nvalid file")); err == nil {
		t.Fatal("expected error for malformed file")
	}
}
