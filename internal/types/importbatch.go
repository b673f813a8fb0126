package types

// ImportBatch is the parsed shape of an uploaded class-data file, produced
// either by the spreadsheet parser or by AI extraction. It is consumed once
// by the import reconciler and never persisted.
type ImportBatch struct {
	Students    []ImportStudent    `json:"students"`
	Assignments []ImportAssignment `json:"assignments"`
	Grades      []ImportGrade      `json:"grades"`
}

type ImportStudent struct {
	Name string `json:"name"`
}

type ImportAssignment struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ImportGrade struct {
	StudentName     string `json:"student_name"`
	AssignmentTitle string `json:"assignment_title"`
	Grade           string `json:"grade"`
}
