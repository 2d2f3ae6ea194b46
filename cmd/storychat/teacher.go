package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type teacherCmd struct {
	Upload       *uploadCmd       `command:"upload" description:"Upload a lesson document"`
	Files        *filesCmd        `command:"files" description:"List uploaded lesson documents"`
	RemoveFile   *removeFileCmd   `command:"rm-file" description:"Delete an uploaded lesson document"`
	Categories   *categoriesCmd   `command:"categories" description:"List, add or remove lesson categories"`
	Instructions *instructionsCmd `command:"instructions" description:"Manage per-lesson prompt instructions"`
	Students     *studentsCmd     `command:"students" description:"Show the student roster"`
}

type uploadCmd struct {
	Args struct {
		Path string `positional-arg-name:"path" required:"true" description:"lesson file to upload"`
	} `positional-args:"true"`
}

func (c *uploadCmd) Execute(_ []string) error {
	file, err := os.Open(c.Args.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	client, err := newClient()
	if err != nil {
		return err
	}
	uploaded, err := client.UploadLesson(context.Background(), filepath.Base(c.Args.Path), file)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s (id %d, %d bytes)\n", uploaded.Filename, uploaded.ID, uploaded.Size)
	return nil
}

type filesCmd struct{}

func (c *filesCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	files, err := client.Files(context.Background())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No lesson documents uploaded")
		return nil
	}
	for _, file := range files {
		fmt.Printf("%3d  %s  %d bytes  %s\n", file.ID, file.Filename, file.Size, file.Created)
	}
	return nil
}

type removeFileCmd struct {
	Args struct {
		ID int64 `positional-arg-name:"id" required:"true"`
	} `positional-args:"true"`
}

func (c *removeFileCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.DeleteFile(context.Background(), c.Args.ID); err != nil {
		return err
	}
	fmt.Println("Deleted")
	return nil
}

type categoriesCmd struct {
	Add    string `long:"add" description:"create a category with this name"`
	Remove int64  `long:"rm" description:"delete the category with this id"`
}

func (c *categoriesCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if c.Add != "" {
		created, err := client.CreateCategory(ctx, c.Add)
		if err != nil {
			return err
		}
		fmt.Printf("Created category %d\n", created.ID)
	}
	if c.Remove != 0 {
		if err := client.DeleteCategory(ctx, c.Remove); err != nil {
			return err
		}
		fmt.Println("Deleted")
	}

	categories, err := client.Categories(ctx)
	if err != nil {
		return err
	}
	for _, category := range categories {
		fmt.Printf("%3d  %s\n", category.ID, category.Name)
	}
	return nil
}

type instructionsCmd struct {
	File   int64  `short:"f" long:"file" required:"true" description:"lesson file id"`
	Add    string `long:"add" description:"attach an instruction with this text"`
	Update int64  `long:"update" description:"rewrite the instruction with this id (requires --text)"`
	Text   string `long:"text" description:"replacement text for --update"`
	Remove int64  `long:"rm" description:"delete the instruction with this id"`
}

func (c *instructionsCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if c.Add != "" {
		created, err := client.CreateInstruction(ctx, c.File, c.Add)
		if err != nil {
			return err
		}
		fmt.Printf("Created instruction %d\n", created.ID)
	}
	if c.Update != 0 {
		if c.Text == "" {
			return fmt.Errorf("--update requires --text")
		}
		if err := client.UpdateInstruction(ctx, c.Update, c.Text); err != nil {
			return err
		}
		fmt.Println("Updated")
	}
	if c.Remove != 0 {
		if err := client.DeleteInstruction(ctx, c.Remove); err != nil {
			return err
		}
		fmt.Println("Deleted")
	}

	instructions, err := client.Instructions(ctx, c.File)
	if err != nil {
		return err
	}
	for _, ins := range instructions {
		fmt.Printf("%3d  %s\n", ins.ID, ins.Text)
	}
	return nil
}

type studentsCmd struct{}

func (c *studentsCmd) Execute(_ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	students, err := client.Students(context.Background())
	if err != nil {
		return err
	}
	for _, student := range students {
		fmt.Printf("%3d  %-16s %s\n", student.ID, student.Username, student.FullName)
	}
	return nil
}
