// Package record encodes and decodes the persisted tabular files.
package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/trailcap/internal/model"
)

// PathsHeader is the column order of the paths file.
var PathsHeader = []string{"trial", "t", "x", "y"}

// PropsHeader is the column order of the trial-properties file.
var PropsHeader = []string{
	"trial", "trial_for_input_method",
	"use_tue_laptop", "input_method", "mouse_speed", "mouse_accuracy",
	"trackpad_speed_set", "right_handed", "right_mouse_handed",
	"right_trackpad_handed", "major", "gender",
	"touchpad_speed", "touchpad_honor", "mouse_speed_rec",
	"mouse_threshold_1", "mouse_threshold_2", "mouse_acceleration",
	"platform", "platform_version", "screen_width", "screen_height",
	"target_x", "target_y", "target_radius", "delay",
}

// Columns that may be absent in files written by older versions.
var optionalPropsColumns = map[string]bool{
	"trackpad_speed_set":    true,
	"right_mouse_handed":    true,
	"right_trackpad_handed": true,
}

// WritePaths writes the paths file with its header.
func WritePaths(w io.Writer, samples []model.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PathsHeader); err != nil {
		return fmt.Errorf("failed to write paths header: %w", err)
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Trial),
			formatFloat(s.T),
			formatFloat(s.X),
			formatFloat(s.Y),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write paths row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush paths rows: %w", err)
	}
	return nil
}

// ReadPaths parses the paths file.
func ReadPaths(r io.Reader) ([]model.Sample, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse paths file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("paths file has no header")
	}
	cols, err := headerIndex(rows[0], PathsHeader, nil)
	if err != nil {
		return nil, err
	}
	samples := make([]model.Sample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var s model.Sample
		if s.Trial, err = intField(row, cols, "trial"); err == nil {
			if s.T, err = floatField(row, cols, "t"); err == nil {
				if s.X, err = floatField(row, cols, "x"); err == nil {
					s.Y, err = floatField(row, cols, "y")
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("paths row %d: %w", i+1, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// WriteRecords writes the trial-properties file with its header.
func WriteRecords(w io.Writer, recs []model.TrialRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PropsHeader); err != nil {
		return fmt.Errorf("failed to write properties header: %w", err)
	}
	for _, rec := range recs {
		row := []string{
			strconv.Itoa(rec.Trial),
			strconv.Itoa(rec.TrialForInputMethod),
			strconv.Itoa(rec.User.UseTueLaptop),
			strconv.Itoa(int(rec.User.InputMethod)),
			strconv.Itoa(rec.User.MouseSpeed),
			strconv.Itoa(rec.User.MouseAccuracy),
			strconv.Itoa(rec.User.TrackpadSpeedSet),
			strconv.Itoa(rec.User.RightHanded),
			strconv.Itoa(rec.User.RightMouseHanded),
			strconv.Itoa(rec.User.RightTrackpadHanded),
			rec.User.Major,
			strconv.Itoa(rec.User.Gender),
			strconv.Itoa(rec.System.TouchpadSpeed),
			strconv.Itoa(rec.System.TouchpadHonor),
			strconv.Itoa(rec.System.MouseSpeedRec),
			strconv.Itoa(rec.System.MouseThreshold1),
			strconv.Itoa(rec.System.MouseThreshold2),
			strconv.Itoa(rec.System.MouseAcceleration),
			rec.System.Platform,
			rec.System.PlatformVersion,
			strconv.Itoa(rec.System.ScreenWidth),
			strconv.Itoa(rec.System.ScreenHeight),
			strconv.Itoa(rec.TargetX),
			strconv.Itoa(rec.TargetY),
			strconv.Itoa(rec.TargetRadius),
			formatFloat(rec.Delay),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write properties row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush properties rows: %w", err)
	}
	return nil
}

// ReadRecords parses the trial-properties file. Optional legacy
// columns default to -1 when the header does not carry them.
func ReadRecords(r io.Reader) ([]model.TrialRecord, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("properties file has no header")
	}
	cols, err := headerIndex(rows[0], PropsHeader, optionalPropsColumns)
	if err != nil {
		return nil, err
	}
	recs := make([]model.TrialRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := decodeRecord(row, cols)
		if err != nil {
			return nil, fmt.Errorf("properties row %d: %w", i+1, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func decodeRecord(row []string, cols map[string]int) (model.TrialRecord, error) {
	var rec model.TrialRecord
	var err error
	read := func(name string, dst *int) {
		if err != nil {
			return
		}
		*dst, err = intField(row, cols, name)
	}
	readOptional := func(name string, dst *int) {
		if err != nil {
			return
		}
		if _, ok := cols[name]; !ok {
			*dst = -1
			return
		}
		*dst, err = intField(row, cols, name)
	}

	read("trial", &rec.Trial)
	read("trial_for_input_method", &rec.TrialForInputMethod)
	read("use_tue_laptop", &rec.User.UseTueLaptop)
	var method int
	read("input_method", &method)
	rec.User.InputMethod = model.InputMethod(method)
	read("mouse_speed", &rec.User.MouseSpeed)
	read("mouse_accuracy", &rec.User.MouseAccuracy)
	readOptional("trackpad_speed_set", &rec.User.TrackpadSpeedSet)
	read("right_handed", &rec.User.RightHanded)
	readOptional("right_mouse_handed", &rec.User.RightMouseHanded)
	readOptional("right_trackpad_handed", &rec.User.RightTrackpadHanded)
	read("gender", &rec.User.Gender)
	read("touchpad_speed", &rec.System.TouchpadSpeed)
	read("touchpad_honor", &rec.System.TouchpadHonor)
	read("mouse_speed_rec", &rec.System.MouseSpeedRec)
	read("mouse_threshold_1", &rec.System.MouseThreshold1)
	read("mouse_threshold_2", &rec.System.MouseThreshold2)
	read("mouse_acceleration", &rec.System.MouseAcceleration)
	read("screen_width", &rec.System.ScreenWidth)
	read("screen_height", &rec.System.ScreenHeight)
	read("target_x", &rec.TargetX)
	read("target_y", &rec.TargetY)
	read("target_radius", &rec.TargetRadius)
	if err != nil {
		return rec, err
	}

	if rec.User.Major, err = stringField(row, cols, "major"); err != nil {
		return rec, err
	}
	if rec.System.Platform, err = stringField(row, cols, "platform"); err != nil {
		return rec, err
	}
	if rec.System.PlatformVersion, err = stringField(row, cols, "platform_version"); err != nil {
		return rec, err
	}
	if rec.Delay, err = floatField(row, cols, "delay"); err != nil {
		return rec, err
	}
	return rec, nil
}

func headerIndex(header, want []string, optional map[string]bool) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range want {
		if _, ok := cols[name]; !ok && !optional[name] {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func stringField(row []string, cols map[string]int, name string) (string, error) {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return "", fmt.Errorf("missing field %q", name)
	}
	return row[i], nil
}

func intField(row []string, cols map[string]int, name string) (int, error) {
	raw, err := stringField(row, cols, name)
	if err != nil {
		return 0, err
	}
	// Older pandas-written files store integers as floats ("1.0").
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return int(v), nil
}

func floatField(row []string, cols map[string]int, name string) (float64, error) {
	raw, err := stringField(row, cols, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
