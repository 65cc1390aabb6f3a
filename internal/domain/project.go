package domain

import "time"

// Project is a repository shown in the recent projects list.
type Project struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	HTMLURL     string    `json:"html_url"`
	PushedAt    time.Time `json:"pushed_at"`
	IsFork      bool      `json:"-"`
}
