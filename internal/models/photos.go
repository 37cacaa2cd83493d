package models

import "fmt"

// PlayerPhotoURL returns a headshot URL for a player id. Official NBA
// ids run six to seven digits and live on the NBA CDN; smaller ids come
// from the lineup feed and use its own image host. Returns "" for the
// zero id, and the URL is not probed: clients handle a missing image.
func PlayerPhotoURL(playerID int) string {
	if playerID <= 0 {
		return ""
	}
	if playerID >= 1000 {
		return fmt.Sprintf("https://cdn.nba.com/headshots/nba/latest/260x190/%d.png", playerID)
	}
	return fmt.Sprintf("https://www.fantasynerds.com/images/nba/players_medium/%d.png", playerID)
}
