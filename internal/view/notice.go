package view

// NoticeKind selects the notice styling.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient message shown at the top of the next page.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Success returns a success notice.
func Success(message string) Notice {
	return Notice{Kind: NoticeSuccess, Title: "Success", Message: message}
}

// Failure returns an error notice.
func Failure(message string) Notice {
	return Notice{Kind: NoticeError, Title: "Error", Message: message}
}

// Info returns a neutral notice.
func Info(message string) Notice {
	return Notice{Kind: NoticeInfo, Title: "Notice", Message: message}
}

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool {
	return n.Message == ""
}
