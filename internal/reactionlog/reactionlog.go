package reactionlog

import "errors"

var ErrEmptyComment = errors.New("comment text is empty")

type Log interface {
	// Like increments the story's like counter and returns the new
	// value. Repeated likes from the same viewer all count; there is
	// deliberately no dedup.
	Like(storyID int64) (int, error)

	// Comment appends text to the story and forwards it to the
	// moderator relay best-effort. Blank or whitespace-only text is
	// rejected with ErrEmptyComment. Relay failures are logged and
	// swallowed, never retried and never surfaced to the submitter.
	Comment(storyID int64, text string) error
}
