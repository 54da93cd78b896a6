package repair

import (
	"fmt"
	"io"
	"os"
)

// BackupSuffix is appended to the target path to name its backup.
const BackupSuffix = ".backup"

// BackupPath returns the backup file path for a session file.
func BackupPath(target string) string {
	return target + BackupSuffix
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// RestoreFromBackup copies the backup over the target when one exists,
// so repeated repairs always start from the pristine original. Returns
// whether a restore happened.
func RestoreFromBackup(target string) (bool, error) {
	backup := BackupPath(target)
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat backup %s: %w", backup, err)
	}
	if err := copyFile(backup, target); err != nil {
		return false, fmt.Errorf("restore from backup %s: %w", backup, err)
	}
	return true, nil
}

// CreateBackup snapshots the target before its first repair. An existing
// backup is never overwritten: it is the only pristine copy.
func CreateBackup(target string) (string, error) {
	backup := BackupPath(target)
	if _, err := os.Stat(backup); err == nil {
		return backup, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat backup %s: %w", backup, err)
	}
	if err := copyFile(target, backup); err != nil {
		return "", fmt.Errorf("create backup %s: %w", backup, err)
	}
	return backup, nil
}
