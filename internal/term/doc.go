// Package term implements a terminal chat client on tcell that hosts
// plugins through host.Host.
//
// The screen shows one tab per conversation. Chats list their participants
// in a roster on the right; pressing a nickname publishes
// host.TopicNickClicked. Like GTK, the client follows a second primary
// press on the same cell within the double-click interval with a native
// double-press event, and exposes its event queue so plugins can look
// ahead for it. The default double-click action only runs when the press
// that preceded it was not consumed.
//
// Keys:
//
//	Tab, Shift-Tab  switch conversation
//	Enter           send the compose line
//	F2              open or close the preferences panel
//	Esc, Ctrl-C     quit (Esc closes the panel when it is open)
package term
