package shell

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usage() (string, error) {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "", fmt.Errorf("loading help text: %w", err)
	}
	return string(dat), nil
}

func usageTopic(topic string) string {
	dat, err := helptext.ReadFile("helptext/" + strings.ToLower(topic) + ".txt")
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return string(dat)
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		return msg(usageTopic(cmd.args[0])), nil
	}
	u, err := usage()
	if err != nil {
		return nil, err
	}
	return msg(u), nil
}
