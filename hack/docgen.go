package main

import (
	"io/ioutil"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra/doc"

	"github.com/tinyzimmer/zipper/pkg/cmd"
	"github.com/tinyzimmer/zipper/pkg/log"
)

const docDir = "doc"

func main() {
	if err := genMarkdownDocs(); err != nil {
		log.Fatal(err)
	}
}

// genMarkdownDocs renders the command reference. Flag defaults computed at
// runtime (the working directory, the user's home) are replaced so the
// output does not depend on who generated it.
func genMarkdownDocs() error {
	u, err := user.Current()
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	replacer := strings.NewReplacer(
		cwd, "<cwd>",
		u.HomeDir, "<home>",
		u.Username, "<user>",
	)

	tmpDir, err := ioutil.TempDir("", "")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	if err := doc.GenMarkdownTree(cmd.GetRootCommand(), tmpDir); err != nil {
		return err
	}

	if err := os.MkdirAll(docDir, 0755); err != nil {
		return err
	}

	return filepath.Walk(tmpDir, func(file string, fileInfo os.FileInfo, lastErr error) error {
		if lastErr != nil {
			return lastErr
		}
		if fileInfo.IsDir() {
			return nil
		}
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return err
		}
		out := path.Join(docDir, strings.TrimPrefix(file, tmpDir+"/"))
		log.Debugf("Writing %s\n", out)
		return ioutil.WriteFile(out, []byte(replacer.Replace(string(data))), 0644)
	})
}
