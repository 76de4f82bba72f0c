package request

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies; a save is a few KB at most
const maxBodyBytes = 1 << 20

// Decode reads a JSON body into dst
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
