// Command storychat is the terminal client for the school chat service:
// account sign-in, lesson selection, the streaming tutor conversation, and
// the teacher content console.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/storychat/storychat/pkg/logger"
)

// options is the root command. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type options struct {
	Login    *loginCmd    `command:"login" description:"Sign in and store the access token"`
	Logout   *logoutCmd   `command:"logout" description:"Drop the stored access token"`
	Register *registerCmd `command:"register" description:"Create an account"`
	Lessons  *lessonsCmd  `command:"lessons" description:"List available lessons"`
	Chat     *chatCmd     `command:"chat" description:"Chat with the tutor about a lesson"`
	History  *historyCmd  `command:"history" description:"Show locally archived turns for a lesson"`
	Teacher  *teacherCmd  `command:"teacher" description:"Teacher console: files, categories, instructions, roster"`
}

func main() {
	godotenv.Load()
	logger.Setup()

	opts := &options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			fmt.Println(err)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
