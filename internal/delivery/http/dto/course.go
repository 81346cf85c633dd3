package dto

import "skill-gap/internal/domain/course"

type CourseRequest struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Provider string `json:"provider"`
}

func (r CourseRequest) ToCourse(skill string) course.Course {
	return course.Course{
		Skill:    skill,
		Title:    r.Title,
		Summary:  r.Summary,
		URL:      r.URL,
		Provider: r.Provider,
	}
}

type CourseResponse struct {
	Skill    string `json:"skill"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	URL      string `json:"url,omitempty"`
	Provider string `json:"provider,omitempty"`
}

func NewCourseResponse(c course.Course) CourseResponse {
	return CourseResponse(c)
}

func NewCourseListResponse(items []course.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewCourseResponse(it))
	}
	return out
}
