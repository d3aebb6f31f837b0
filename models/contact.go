package models

// ContactMessage is a submission of the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// NowPlaying is the track currently (or most recently) played on Spotify.
type NowPlaying struct {
	IsPlaying     bool   `json:"isPlaying"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	AlbumImageURL string `json:"albumImageUrl"`
	SongURL       string `json:"songUrl"`
}
