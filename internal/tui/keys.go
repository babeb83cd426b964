package tui

import "github.com/SscSPs/finance_tracker/internal/client"

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeDateRange
	modeAdd
	modeConfirmDelete
	modeUpload
	modeChat
	modeLimit
)

const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keySearch  = "/"
	keyRange   = "r"
	keyAdd     = "a"
	keyDelete  = "d"
	keyUpload  = "u"
	keyChat    = "c"
	keyLimit   = "l"
	keyReset   = "x"
	keySubmit  = "enter"
	keyCancel  = "esc"
	keyNext    = "tab"
	keyPrev    = "shift+tab"
	keyConfirm = "y"
	keyDecline = "n"
)

var sortKeys = map[string]client.Column{
	"1": client.ColumnDate,
	"2": client.ColumnAmount,
	"3": client.ColumnCategory,
	"4": client.ColumnDescription,
}

const helpLine = "/ search  r range  1-4 sort  a add  d delete  u upload  c chat  l limit  x reset  q quit"
