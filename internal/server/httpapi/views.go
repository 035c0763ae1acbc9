package httpapi

import "github.com/dmitrijs2005/mediakeeper/internal/server/models"

// payloadRoute is where stored payloads are served from.
const payloadRoute = "/Resources/Media/"

// accountView is the public shape of an account. The credential never leaves
// the server.
type accountView struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func viewAccount(a models.Account) accountView {
	return accountView{ID: a.ID, Username: a.Username, Role: a.Role}
}

func viewAccounts(as []models.Account) []accountView {
	out := make([]accountView, 0, len(as))
	for _, a := range as {
		out = append(out, viewAccount(a))
	}
	return out
}

type mediaView struct {
	models.Media
	URL string `json:"url"`
}

func viewMedia(m models.Media) mediaView {
	return mediaView{Media: m, URL: payloadRoute + m.FileName()}
}

func viewMediaList(ms []models.Media) []mediaView {
	out := make([]mediaView, 0, len(ms))
	for _, m := range ms {
		out = append(out, viewMedia(m))
	}
	return out
}

type verifyView struct {
	ID uint64 `json:"id"`
	OK bool   `json:"ok"`
}
