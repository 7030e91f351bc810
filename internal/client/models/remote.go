package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RemoteID is a server identifier or code that may arrive as a JSON number
// or string.
type RemoteID string

// UnmarshalJSON accepts 42, "42" and null.
func (r *RemoteID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*r = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*r = RemoteID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*r = RemoteID(strconv.FormatInt(i, 10))
		return nil
	}
	*r = RemoteID(n.String())
	return nil
}

// RemoteLetter is one record of the assigned-letters endpoint.
type RemoteLetter struct {
	ID           RemoteID `json:"id"`
	SlipID       RemoteID `json:"slip_id"`
	ChildNbr     RemoteID `json:"child_nbr"`
	ChildCode    RemoteID `json:"child_code"`
	ChildName    string   `json:"child_name"`
	Village      string   `json:"village"`
	ContactName  string   `json:"contact_name"`
	DueDate      string   `json:"due_date"`
	Status       string   `json:"status"`
	ReturnReason string   `json:"return_reason"`
}

// Code returns the child code, preferring child_nbr as the server does.
func (r RemoteLetter) Code() string {
	if r.ChildNbr != "" {
		return string(r.ChildNbr)
	}
	return string(r.ChildCode)
}

// UploadFile is one file part of an upload. The content comes from Data
// when set, otherwise from the file at Path.
type UploadFile struct {
	Field       string
	Path        string
	Name        string
	Data        []byte
	ContentType string
}

// Upload is the multipart payload pushed for a completed letter.
type Upload struct {
	LocalID    string
	ServerID   string
	OwnerPhone string
	Message    string
	Drawing    *UploadFile
	Photos     []UploadFile
}
