package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/storychat/storychat/internal/auth"
	"github.com/storychat/storychat/internal/backend"
	"github.com/storychat/storychat/internal/config"
	"github.com/storychat/storychat/internal/history"
)

// newClient builds the backend client over the persistent token store, so a
// token saved by `login` is picked up by every later command.
func newClient() (*backend.Client, error) {
	tokens, err := auth.NewFileStore(config.GetTokenPath())
	if err != nil {
		return nil, err
	}
	return backend.NewClient(tokens), nil
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

type loginCmd struct {
	Username string `short:"u" long:"username" description:"account username"`
	Password string `short:"p" long:"password" description:"account password (prompted when omitted)"`
}

func (c *loginCmd) Execute(_ []string) error {
	var err error
	if c.Username == "" {
		if c.Username, err = promptLine("Username: "); err != nil {
			return err
		}
	}
	if c.Password == "" {
		if c.Password, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.SignIn(context.Background(), c.Username, c.Password); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", c.Username)
	return nil
}

type logoutCmd struct{}

func (c *logoutCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.SignOut(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

type registerCmd struct {
	Username string `short:"u" long:"username" required:"true" description:"account username"`
	Email    string `short:"e" long:"email" required:"true" description:"account email"`
	Password string `short:"p" long:"password" required:"true" description:"account password"`
	FullName string `short:"n" long:"name" required:"true" description:"full name"`
	Role     string `short:"r" long:"role" default:"student" choice:"student" choice:"teacher" description:"account role"`
}

func (c *registerCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	message, err := client.Register(context.Background(), backend.RegisterRequest{
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
		FullName: c.FullName,
		Role:     c.Role,
	})
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

type lessonsCmd struct {
	Start int64 `long:"start" description:"start the lesson with this id"`
}

func (c *lessonsCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if c.Start != 0 {
		message, err := client.StartLesson(ctx, c.Start)
		if err != nil {
			return err
		}
		fmt.Println(message)
	}

	lessons, err := client.AvailableLessons(ctx)
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		fmt.Println("No lessons available")
		return nil
	}

	for _, lesson := range lessons {
		marker := " "
		if lesson.Started {
			marker = "*"
		}
		line := fmt.Sprintf("%s %3d  %s", marker, lesson.ID, lesson.Title)
		if lesson.Category != "" {
			line += fmt.Sprintf("  [%s]", lesson.Category)
		}
		fmt.Println(line)
	}
	return nil
}

type historyCmd struct {
	Lesson int64 `short:"l" long:"lesson" required:"true" description:"lesson id"`
	Limit  int   `long:"limit" default:"20" description:"number of turns to show"`
}

func (c *historyCmd) Execute(_ []string) error {
	path := config.GetHistoryPath()
	if path == "" {
		return fmt.Errorf("local history is disabled; set STORYCHAT_HISTORY_PATH")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	turns, err := store.Recent(context.Background(), c.Lesson, c.Limit)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		fmt.Println("No archived turns for this lesson")
		return nil
	}
	for _, turn := range turns {
		printTurn(turn)
	}
	return nil
}
