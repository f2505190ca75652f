package constants

const (
	ModeFile           = 0o100644
	ModeExecutable     = 0o100755
	ModeSymlink        = 0o120000
	ModeTree           = 0o040000
	ModeGitlink        = 0o160000
	ModeTypeMask       = 0o170000
	DefaultFilePerm    = 0o644 // rw-r--r--
	DefaultDirPerm     = 0o755 // rwxr-xr-x
	GitDirName         = ".git"
	GitDirFilePrefix   = "gitdir: "
	IgnoreFileName     = ".gitignore"
	ConfigFileName     = "gels.ini"
	HiddenConfigName   = ".gels.ini"
	Head               = "ref: refs/heads/master\n" // Default .git/HEAD content
	RefPrefix          = "ref: "
	ProgramName        = "gels"
	DefaultColumnSlack = 2 // columns reserved for spacing in the grid layout
)

// Directories a repository needs before it can be opened.
var Dir_paths = []string{
	".git",
	".git/objects",
	".git/refs",
	".git/refs/heads",
	".git/refs/tags",
}
