package git

import (
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

var gitCloneFunc = gitClone

const repositoryDirPrefix = "steward"

func CloneRepository(url, privateKeyFilepath, passphrase string) (repositoryPath string, err error) {

	tmpDir, err := os.MkdirTemp("", repositoryDirPrefix)
	if err != nil {
		return "", err
	}

	err = gitCloneFunc(tmpDir, url, privateKeyFilepath, passphrase)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}

	return tmpDir, nil
}

func gitClone(tmpDir, gitUrl, privateKeyFilepath, passphrase string) error {

	cloneOptions := &gogit.CloneOptions{
		URL:               gitUrl,
		RecurseSubmodules: gogit.DefaultSubmoduleRecursionDepth,
	}

	if privateKeyFilepath != "" {

		auth, err := ssh.NewPublicKeysFromFile(ssh.DefaultUsername, privateKeyFilepath, passphrase)
		if err != nil {
			return err
		}

		cloneOptions.Auth = auth
	}

	err := cloneOptions.Validate()
	if err != nil {
		return err
	}

	_, err = gogit.PlainClone(tmpDir, false, cloneOptions)

	return err
}
