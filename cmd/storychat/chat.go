package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/storychat/storychat/internal/auth"
	"github.com/storychat/storychat/internal/backend"
	"github.com/storychat/storychat/internal/chat"
	"github.com/storychat/storychat/internal/config"
	"github.com/storychat/storychat/internal/history"
)

type chatCmd struct {
	Lesson   int64  `short:"l" long:"lesson" required:"true" description:"lesson id to chat about"`
	Username string `short:"u" long:"username" description:"sign in for this session only instead of using the stored token"`
	Password string `short:"p" long:"password" description:"password for the session-only sign-in"`
}

func (c *chatCmd) Execute(_ []string) error {
	ctx := context.Background()

	client, err := c.client(ctx)
	if err != nil {
		return err
	}

	// Resume where the server left the conversation.
	convo, turns, err := client.LessonConversation(ctx, c.Lesson)
	if err != nil {
		return err
	}

	transcript := &chat.Transcript{}
	controllerConvo := &chat.Context{}
	controller := chat.NewController(client, transcript, controllerConvo,
		chat.WithStatusFunc(func(status string) {
			fmt.Printf("  … %s\n", status)
		}))
	if err := controller.Reset(convo, turns); err != nil {
		return err
	}

	ended, err := client.ConversationEnded(ctx, c.Lesson)
	if err != nil {
		return err
	}
	if ended {
		controller.MarkEnded()
		fmt.Println("This conversation has ended; its transcript is shown below.")
	}

	for _, turn := range turns {
		printTurn(turn)
	}

	var archive *history.Store
	if path := config.GetHistoryPath(); path != "" {
		if archive, err = history.Open(path); err != nil {
			log.Warn().Err(err).Msg("Local history unavailable")
			archive = nil
		} else {
			defer archive.Close()
		}
	}

	fmt.Println("Type a message, /end to finish the conversation, /quit to leave.")
	reader := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !reader.Scan() {
			return reader.Err()
		}
		line := strings.TrimSpace(reader.Text())

		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/end":
			if id := controller.Context().ConversationID; id != 0 {
				if err := client.EndChat(ctx, id); err != nil {
					return err
				}
			}
			controller.MarkEnded()
			fmt.Println("Conversation ended.")
			return nil
		}

		before := transcript.Len()
		if err := controller.SendTurn(ctx, line); err != nil {
			fmt.Println(err)
			continue
		}

		completed := transcript.Turns()
		printTurn(completed[len(completed)-1])
		if archive != nil {
			for _, turn := range completed[before:] {
				if err := archive.SaveTurn(ctx, c.Lesson, turn); err != nil {
					log.Warn().Err(err).Msg("Failed to archive turn")
				}
			}
		}
	}
}

// client picks the token store: explicit credentials get a session-only
// memory store, otherwise the persistent file store from `login` is used.
func (c *chatCmd) client(ctx context.Context) (*backend.Client, error) {
	if c.Username == "" {
		return newClient()
	}

	password := c.Password
	if password == "" {
		var err error
		if password, err = promptLine("Password: "); err != nil {
			return nil, err
		}
	}

	client := backend.NewClient(auth.NewMemoryStore())
	if err := client.SignIn(ctx, c.Username, password); err != nil {
		return nil, err
	}
	return client, nil
}

func printTurn(turn chat.Turn) {
	speaker := "you"
	if turn.Role == chat.RoleAssistant {
		speaker = "bot"
	}
	flag := ""
	if turn.Flagged {
		flag = " [flagged]"
	}
	fmt.Printf("%s>%s %s\n", speaker, flag, turn.Content)
}
