package git

import (
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

func Pull(repositoryPath, privateKeyFilepath, passphrase string) error {
	r, err := gogit.PlainOpen(repositoryPath)
	if err != nil {
		return err
	}

	w, err := r.Worktree()
	if err != nil {
		return err
	}

	return gitPull(w, privateKeyFilepath, passphrase)
}

func gitPull(w *gogit.Worktree, privateKeyFilepath, passphrase string) error {

	options := &gogit.PullOptions{
		RecurseSubmodules: gogit.DefaultSubmoduleRecursionDepth,
		ReferenceName:     plumbing.Master,
		SingleBranch:      true,
	}

	if privateKeyFilepath != "" {

		auth, err := ssh.NewPublicKeysFromFile(ssh.DefaultUsername, privateKeyFilepath, passphrase)
		if err != nil {
			return err
		}

		options.Auth = auth
	}

	err := options.Validate()
	if err != nil {
		return err
	}

	return w.Pull(options)
}
