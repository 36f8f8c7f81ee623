package types

// ATSResult is the keyword and formatting score of a resume.
type ATSResult struct {
	Score         int      `json:"score"`
	Suggestions   []string `json:"suggestions"`
	KeywordsFound []string `json:"keywords_found"`
}

// CareerTwin is a reference professional whose skills overlap with the candidate.
type CareerTwin struct {
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Company    string   `json:"company"`
	Skills     []string `json:"skills"`
	MatchScore int      `json:"match_score"`
}

// RoleSkillMap maps a job role to the ordered skills expected for it.
type RoleSkillMap map[string][]string

// RoadmapEntry is one career path of the growth roadmap, in file order.
type RoadmapEntry struct {
	PathName string   `json:"path_name"`
	Skills   []string `json:"skills"`
}

// GrowthPath is the first roadmap path that the resume text supports.
type GrowthPath struct {
	CareerPath    string   `json:"career_path"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// SkillGap compares the candidate skills with those a role expects.
type SkillGap struct {
	JobRole         string   `json:"job_role,omitempty"`
	MatchedSkills   []string `json:"matched_skills"`
	SuggestedSkills []string `json:"suggested_skills"`
}

// ResumeProfile holds what was extracted from one uploaded document.
type ResumeProfile struct {
	RawText         string   `json:"raw_text"`
	ImageCount      int      `json:"image_count"`
	ExtractedSkills []string `json:"extracted_skills"`
}

// ResumeAnalysis is the combined result of scoring and twin matching.
type ResumeAnalysis struct {
	Profile     ResumeProfile `json:"profile"`
	ATSResult   ATSResult     `json:"ats_result"`
	CareerTwins []CareerTwin  `json:"career_twins"`
}

// UploadResponse is returned from the upload endpoint.
type UploadResponse struct {
	Message     string       `json:"message"`
	ResumeText  string       `json:"resume_text"`
	ATSResult   ATSResult    `json:"ats_result"`
	CareerTwins []CareerTwin `json:"career_twins"`
	UploadID    string       `json:"upload_id,omitempty"`
}

// MessageResponse carries a single human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RolesResponse lists the job roles known to the skills database.
type RolesResponse struct {
	Roles []string `json:"roles"`
}
