package api

// Account is the public view of a server account.
type Account struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Media is a media record as returned by the server.
type Media struct {
	ID          uint64 `json:"id"`
	Owner       uint64 `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
	URL         string `json:"url"`
}

// Identity is what the current token says about its holder.
type Identity struct {
	ID   string
	Name string
	Role string
}
