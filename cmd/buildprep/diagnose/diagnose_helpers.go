package diagnose

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/flarebyte/buildprep/internal/config"
	objembed "github.com/flarebyte/buildprep/internal/embed"
	"github.com/flarebyte/buildprep/internal/toolexec"
	"github.com/flarebyte/buildprep/internal/vcs"
)

type toolStatus struct {
	Name    string `json:"name"`
	Program string `json:"program"`
	Path    string `json:"path,omitempty"`
	Found   bool   `json:"found"`
}

type repoStatus struct {
	Dir   string `json:"dir"`
	Head  string `json:"head,omitempty"`
	Clean bool   `json:"clean"`
	Error string `json:"error,omitempty"`
}

type report struct {
	Tools              []toolStatus `json:"tools"`
	EmbedArchitectures []string     `json:"embedArchitectures"`
	Repo               *repoStatus  `json:"repo,omitempty"`
}

func (r report) missing() []string {
	var out []string
	for _, t := range r.Tools {
		if !t.Found {
			out = append(out, t.Name)
		}
	}
	return out
}

func collect(tools config.Tools, repo string) report {
	rep := report{
		Tools: []toolStatus{
			locate("git", tools.Git),
			locate("patch", tools.Patch),
			locate("ld", tools.Ld),
		},
		EmbedArchitectures: objembed.Supported(),
	}
	if repo != "" {
		rep.Repo = inspectRepo(repo)
	}
	return rep
}

func locate(name, program string) toolStatus {
	st := toolStatus{Name: name, Program: program}
	if p, err := toolexec.Locate(program); err == nil {
		st.Path = p
		st.Found = true
	}
	return st
}

func inspectRepo(dir string) *repoStatus {
	st := &repoStatus{Dir: dir}
	head, err := vcs.Head(dir)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Head = head
	clean, err := vcs.Clean(dir)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Clean = clean
	return st
}

func writeReport(w io.Writer, rep report, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(rep, "", "  ")
	} else {
		b, err = json.Marshal(rep)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func joinNames(names []string) string { return strings.Join(names, ", ") }
