package dto

type AddBookInput struct {
	Title     string
	Authors   []string
	Genres    []string
	PageCount int
}

type ImportFileInput struct {
	Path    string
	Title   string
	Authors []string
	Genres  []string
}

type LookupInput struct {
	Provider string
	Title    string
	Author   string
	ISBN     string
}

type BookOutput struct {
	ID        string
	Title     string
	Authors   []string
	Genres    []string
	PageCount int
	FilePath  string
	Source    string
}
