package session

import "encoding/json"

func jsonViewer(v *Viewer) ([]byte, error) {
	// Never publish the token.
	return json.Marshal(map[string]interface{}{
		"username": v.Username,
		"image":    v.Image.Src(),
	})
}
