// Package cast composes and inserts a nickname into a compose buffer.
//
// The inserted text is prefix+nick+postfix, where the prefix and postfix are
// each attached according to an independent Policy evaluated against the
// cursor position: FirstWord applies when the cursor is at the start of the
// text, LastWord when it is at the end. On empty text both hold.
package cast
