package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	funcCount = make(map[string]int)
	lock      sync.Mutex
)

// ValidateSnapshot compares the JSON encoding of obj to testdata/<test>-<n>.json
// Missing files are written, as are all files when SPK_UPDATE_SNAPSHOTS is set.
func ValidateSnapshot(t *testing.T, obj interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()

	filename := nextFilename(t.Name())
	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatal(err)
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) || os.Getenv("SPK_UPDATE_SNAPSHOTS") != "" {
		if err := write(filename, objJSON); err != nil {
			t.Fatal(err)
		}

		return true
	}

	if err != nil {
		t.Fatal(err)
	}

	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(objJSON), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
		return false
	}

	return true
}

func nextFilename(testName string) string {
	lock.Lock()
	defer lock.Unlock()

	name := strings.ReplaceAll(testName, "/", "_")
	call := funcCount[name]
	funcCount[name] = call + 1

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", name, call))
}

func write(filename string, b []byte) error {
	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, append(b, '\n'), 0644)
}
