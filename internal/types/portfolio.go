package types

// Field identifies a structured profile field that reviewed text can sync into
type Field string

// The closed set of profile fields addressable by a sync assignment.
// FieldNone is the classifier's "no suggestion" result and is never
// accepted by the sync engine.
const (
	FieldSelfIntroduction Field = "selfIntroduction"
	FieldExperience       Field = "experience"
	FieldInternship       Field = "internship"
	FieldExtracurricular  Field = "extracurricular"
	FieldAwards           Field = "awards"
	FieldCustomQuestions  Field = "customQuestions"
	FieldAdditionalInfo   Field = "additionalInfo"
	FieldProjects         Field = "projects"
	FieldNone             Field = "none"
)

// Project represents one project entry in a structured profile
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Profile represents the caller's persisted portfolio record, distinct from
// the transient review session. Owned by the persistence collaborator.
type Profile struct {
	SelfIntroduction string    `json:"self_introduction,omitempty"`
	Experience       string    `json:"experience,omitempty"`
	Internship       string    `json:"internship,omitempty"`
	Extracurricular  string    `json:"extracurricular,omitempty"`
	Awards           string    `json:"awards,omitempty"`
	CustomQuestions  string    `json:"custom_questions,omitempty"`
	AdditionalInfo   string    `json:"additional_info,omitempty"`
	Projects         []Project `json:"projects,omitempty"`
}

// Clone returns a deep copy of the profile, including its project list.
// Sync mutations always operate on a clone, never on the cached record.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Projects != nil {
		clone.Projects = make([]Project, len(p.Projects))
		copy(clone.Projects, p.Projects)
	}
	return &clone
}

// SyncAssignment is a caller-approved mapping from a reviewed section to a
// structured-profile field. Ephemeral; consumed once by the sync engine.
type SyncAssignment struct {
	SectionID   string `json:"section_id"`
	Field       Field  `json:"field"`
	ProjectName string `json:"project_name,omitempty"`
}
