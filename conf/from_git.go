package conf

import (
	"os"
	fpath "path/filepath"

	"github.com/cloudgovern/steward/git"
)

var cloneRepositoryFunc = git.CloneRepository

func readFileFromGit(url, privateKeyFilepath, passphrase, filepath string) (*Configuration, error) {

	err := checkFileExtension(filepath)
	if err != nil {
		return nil, err
	}

	repoFilepath, err := cloneRepositoryFunc(url, privateKeyFilepath, passphrase)
	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(repoFilepath)

	filepath = fpath.Join(repoFilepath, filepath)

	return readFile(filepath)
}
