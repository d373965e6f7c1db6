package study

import (
	"slices"
	"strconv"
)

// Observation is a single inflammation measurement taken on a given study
// day. Observations are values — created once, never mutated.
type Observation struct {
	Day   int
	Value float64
}

// String renders the measured value, matching how observations are quoted
// in study notes.
func (o Observation) String() string {
	return strconv.FormatFloat(o.Value, 'g', -1, 64)
}

// Person is the named-entity capability shared by Patient and Doctor.
// The name is display identity only, not a unique key.
type Person struct {
	name string
}

// NewPerson returns a Person with the given display name.
func NewPerson(name string) Person {
	return Person{name: name}
}

// Name returns the display name.
func (p Person) Name() string { return p.name }

func (p Person) String() string { return p.name }

// Patient is a study participant with an append-only, day-ordered
// observation history.
//
// Patient is not safe for concurrent use; callers sharing one instance
// across goroutines must serialize access themselves.
type Patient struct {
	Person
	observations []Observation
}

// NewPatient returns a Patient with no observations.
func NewPatient(name string) *Patient {
	return &Patient{Person: NewPerson(name)}
}

// AddObservation records value on the day after the patient's latest
// observation, or day 0 for a first observation. It returns the new
// Observation.
func (p *Patient) AddObservation(value float64) Observation {
	day := 0
	if n := len(p.observations); n > 0 {
		day = p.observations[n-1].Day + 1
	}
	return p.AddObservationAt(day, value)
}

// AddObservationAt records value on an explicit day. The day is used as-is:
// out-of-order or duplicate days are permitted, and the observation is
// still appended at the end of the history.
func (p *Patient) AddObservationAt(day int, value float64) Observation {
	obs := Observation{Day: day, Value: value}
	p.observations = append(p.observations, obs)
	return obs
}

// Observations returns the patient's history in insertion order. The
// returned slice is a copy; appending to it does not affect the patient.
func (p *Patient) Observations() []Observation {
	return slices.Clone(p.observations)
}

// Doctor is a study clinician with the list of patients under their care.
//
// Patients are held by reference, so a patient may appear under more than
// one doctor. No deduplication is applied.
type Doctor struct {
	Person
	patients []*Patient
}

// NewDoctor returns a Doctor with no patients.
func NewDoctor(name string) *Doctor {
	return &Doctor{Person: NewPerson(name)}
}

// AddPatient appends p to the doctor's list.
func (d *Doctor) AddPatient(p *Patient) {
	d.patients = append(d.patients, p)
}

// Patients returns the doctor's patients in the order they were added.
// The returned slice is a copy.
func (d *Doctor) Patients() []*Patient {
	return slices.Clone(d.patients)
}
