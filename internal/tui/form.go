package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/trailcap/internal/model"
)

// The questionnaire shown before any trial. Answers become the user
// settings attached to every recorded path.

const (
	errFillAll        = "Please fill in all the fields."
	errVerifySettings = "Please verify your mouse settings."
)

var majors = []string{
	"Industrial Engineering",
	"Innovation Sciences",
	"Applied Physics",
	"Mechanical Engineering",
	"Electrical Engineering",
	"Biomedical Engineering",
	"Built Environment",
	"Industrial Design",
	"Chemical Engineering and Chemistry",
	"Computer Science",
	"Data Science",
	"Applied Mathematics",
	"Other",
}

// Field indexes within the form.
const (
	fieldMajor = iota
	fieldGender
	fieldHanded
	fieldTrackpadHand
	fieldMouseHand
	fieldLaptop
	fieldMouseSpeed
	fieldMouseAccuracy
	fieldTrackpadSpeed
	fieldInputMethod
	fieldCount
)

type formField struct {
	label    string
	options  []string
	value    int // index into options, -1 when unanswered
	checkbox bool
}

type form struct {
	fields [fieldCount]formField
	cursor int
	errMsg string
}

func newForm(last *model.UserSettings) *form {
	f := &form{}
	f.fields[fieldMajor] = formField{label: "What is your major?", options: majors, value: -1}
	f.fields[fieldGender] = formField{label: "What is your gender?", options: []string{"Male", "Female", "Other"}, value: -1}
	f.fields[fieldHanded] = formField{label: "Which hand do you use to write?", options: []string{"Left", "Right"}, value: -1}
	f.fields[fieldTrackpadHand] = formField{label: "With which hand do you normally use the trackpad?", options: []string{"Left", "Right"}, value: -1}
	f.fields[fieldMouseHand] = formField{label: "With which hand do you normally use the mouse?", options: []string{"Left", "Right"}, value: -1}
	f.fields[fieldLaptop] = formField{label: "Do you use a TU/e laptop?", options: []string{"No", "Yes"}, value: -1}
	f.fields[fieldMouseSpeed] = formField{label: "Set mouse speed to medium (10)", checkbox: true, value: -1}
	f.fields[fieldMouseAccuracy] = formField{label: "Set the mouse accuracy to enhanced", checkbox: true, value: -1}
	f.fields[fieldTrackpadSpeed] = formField{label: "Set trackpad speed to medium (5)", checkbox: true, value: -1}
	f.fields[fieldInputMethod] = formField{label: "Will you use a trackpad or a mouse?", options: []string{"Trackpad", "Mouse"}, value: -1}

	if last != nil {
		f.prefill(*last)
	}
	return f
}

// prefill restores a returning participant's previous answers.
func (f *form) prefill(last model.UserSettings) {
	setMajor := func() {
		for i, m := range majors {
			if m == last.Major {
				f.fields[fieldMajor].value = i
				return
			}
		}
	}
	setMajor()
	f.fields[fieldGender].value = last.Gender
	f.fields[fieldHanded].value = last.RightHanded
	f.fields[fieldTrackpadHand].value = last.RightTrackpadHanded
	f.fields[fieldMouseHand].value = last.RightMouseHanded
	f.fields[fieldLaptop].value = last.UseTueLaptop
	f.fields[fieldMouseSpeed].value = last.MouseSpeed
	f.fields[fieldMouseAccuracy].value = last.MouseAccuracy
	f.fields[fieldTrackpadSpeed].value = last.TrackpadSpeedSet
	f.fields[fieldInputMethod].value = int(last.InputMethod)

	for i := range f.fields {
		if f.fields[i].value >= len(f.fieldOptions(i)) && !f.fields[i].checkbox {
			f.fields[i].value = -1
		}
	}
}

func (f *form) fieldOptions(i int) []string {
	if f.fields[i].checkbox {
		return []string{"no", "yes"}
	}
	return f.fields[i].options
}

// laptopChecks reports whether the hardware checklist is shown. The
// checklist only applies to the standardized TU/e laptops.
func (f *form) laptopChecks() bool {
	return f.fields[fieldLaptop].value == 1
}

func (f *form) visible(i int) bool {
	switch i {
	case fieldMouseSpeed, fieldMouseAccuracy, fieldTrackpadSpeed:
		return f.laptopChecks()
	default:
		return true
	}
}

func (f *form) moveCursor(delta int) {
	for {
		f.cursor += delta
		if f.cursor < 0 {
			f.cursor = 0
			break
		}
		if f.cursor >= fieldCount {
			f.cursor = fieldCount - 1
			break
		}
		if f.visible(f.cursor) {
			break
		}
	}
	// The cursor may have landed on a hidden field at the edges.
	if !f.visible(f.cursor) {
		if delta > 0 {
			f.moveCursor(-1)
		} else {
			f.moveCursor(1)
		}
	}
}

func (f *form) cycle(delta int) {
	field := &f.fields[f.cursor]
	n := len(f.fieldOptions(f.cursor))
	if n == 0 {
		return
	}
	if field.value < 0 {
		if delta >= 0 {
			field.value = 0
		} else {
			field.value = n - 1
		}
	} else {
		field.value = (field.value + delta + n) % n
	}
	f.errMsg = ""
}

func (f *form) toggle() {
	field := &f.fields[f.cursor]
	if !field.checkbox {
		f.cycle(1)
		return
	}
	if field.value == 1 {
		field.value = 0
	} else {
		field.value = 1
	}
	f.errMsg = ""
}

// submit validates the answers and returns the resulting settings.
func (f *form) submit() (model.UserSettings, bool) {
	answered := func(i int) bool { return f.fields[i].value >= 0 }
	if !answered(fieldHanded) || !answered(fieldTrackpadHand) || !answered(fieldMouseHand) ||
		!answered(fieldLaptop) || !answered(fieldGender) || !answered(fieldMajor) ||
		!answered(fieldInputMethod) {
		f.errMsg = errFillAll
		return model.UserSettings{}, false
	}
	if f.laptopChecks() &&
		(f.fields[fieldMouseSpeed].value < 1 ||
			f.fields[fieldMouseAccuracy].value < 1 ||
			f.fields[fieldTrackpadSpeed].value < 1) {
		f.errMsg = errVerifySettings
		return model.UserSettings{}, false
	}
	return model.UserSettings{
		UseTueLaptop:        f.fields[fieldLaptop].value,
		InputMethod:         model.InputMethod(f.fields[fieldInputMethod].value),
		MouseSpeed:          f.fields[fieldMouseSpeed].value,
		MouseAccuracy:       f.fields[fieldMouseAccuracy].value,
		TrackpadSpeedSet:    f.fields[fieldTrackpadSpeed].value,
		RightHanded:         f.fields[fieldHanded].value,
		RightMouseHanded:    f.fields[fieldMouseHand].value,
		RightTrackpadHanded: f.fields[fieldTrackpadHand].value,
		Major:               majors[f.fields[fieldMajor].value],
		Gender:              f.fields[fieldGender].value,
	}, true
}

var (
	formTitleStyle  = lipgloss.NewStyle().Bold(true)
	formCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	formValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	formUnsetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	formErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	formHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

func (f *form) render() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render("Please answer the following questions:"))
	b.WriteString("\n\n")
	for i := 0; i < fieldCount; i++ {
		if !f.visible(i) {
			continue
		}
		field := f.fields[i]
		marker := "  "
		if i == f.cursor {
			marker = formCursorStyle.Render("> ")
		}
		value := f.renderValue(i)
		fmt.Fprintf(&b, "%s%-52s %s\n", marker, field.label, value)
	}
	b.WriteString("\n")
	b.WriteString(formHintStyle.Render("Please use the hand you normally use for this input device"))
	b.WriteString("\n")
	if f.errMsg != "" {
		b.WriteString(formErrorStyle.Render(f.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

func (f *form) renderValue(i int) string {
	field := f.fields[i]
	if field.checkbox {
		if field.value == 1 {
			return formValueStyle.Render("[x]")
		}
		return formUnsetStyle.Render("[ ]")
	}
	if field.value < 0 {
		if i == fieldMajor {
			return formUnsetStyle.Render("Please choose your major")
		}
		return formUnsetStyle.Render("-")
	}
	return formValueStyle.Render(field.options[field.value])
}
