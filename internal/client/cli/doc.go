// Package cli implements the interactive mediakeeper command line.
//
// The REPL reads one command per line:
//
//	register          create an account
//	login             obtain a token
//	whoami            show the logged in identity
//	list              list media records
//	upload <path>     upload a file as a new record
//	delete <id>       delete a record and its payload
//	logout            forget the token
//	exit | quit       leave the program
//
// Passwords are read without echo through golang.org/x/term.
package cli
