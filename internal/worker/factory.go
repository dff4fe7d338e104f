package worker

import (
	"github.com/terrapane/aescrypt-desktop/internal/config"
	"github.com/terrapane/aescrypt-desktop/internal/engine"
	"github.com/terrapane/aescrypt-desktop/internal/version"
)

// Factory produces the transform operation for one file. Tests substitute
// this to script outcomes without touching real ciphertext.
type Factory interface {
	NewOperation(mode Mode, password []byte) engine.Operation
}

// engineFactory wires the real encryptor/decryptor, stamping encrypted
// output with the program's identity.
type engineFactory struct {
	iterations uint32
	extensions []engine.Extension
}

func newEngineFactory(cfg *config.Config) engineFactory {
	return engineFactory{
		iterations: cfg.KDFIterations,
		extensions: []engine.Extension{
			{Name: "CREATED_BY", Value: version.CreatedBy()},
		},
	}
}

func (f engineFactory) NewOperation(mode Mode, password []byte) engine.Operation {
	if mode == ModeDecrypt {
		return engine.NewDecrypt(password)
	}
	return engine.NewEncrypt(password, f.iterations, f.extensions)
}
