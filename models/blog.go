package models

// BlogPost is a rendered article from the content directory.
type BlogPost struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author"`
	ReadTime int      `json:"readTime"`
}
