package ui

import (
	"utsulog/internal/domain"
)

// videosLoadedMsg carries the video catalog fetched at start-up
type videosLoadedMsg struct {
	videos []domain.Video
	err    error
}

// emojisLoadedMsg carries the emoji map fetched at start-up
type emojisLoadedMsg struct {
	emojis domain.EmojiMap
	err    error
}

// clearStatusMsg clears the status line if no newer status replaced it
type clearStatusMsg struct {
	seq uint64
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	what string
	err  error
}

// browserMsg contains the result of opening a watch URL
type browserMsg struct {
	url string
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
