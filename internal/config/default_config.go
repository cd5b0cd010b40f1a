package config

// DefaultConfigTOML is the commented .dupscan.toml written by `dupscan init`.
// Every value matches DefaultConfig.
const DefaultConfigTOML = `# dupscan configuration
#
# dupscan also reads a [tool.dupscan] table from pyproject.toml; this file
# takes priority when both exist.

[duplicates]
# Number of normalized lines hashed per block. Lines are trimmed; blank
# lines and comment lines are ignored before blocks are formed.
window_size = 6

# Stop collecting files after this many matches.
max_files = 1000

# Report caps: number of blocks, and files/locations listed per block.
max_groups = 10
max_files_per_group = 5
max_locations_per_group = 5

# Files whose names end with this suffix are scanned.
extension = ".py"

# Lines starting with this marker (after trimming) are ignored.
comment_marker = "#"

# Glob patterns matched against paths relative to the scanned directory.
# Nothing is excluded by default.
exclude_patterns = []
# exclude_patterns = ["venv/**", ".venv/**", "**/migrations/**"]

# Concurrent file reads; 0 uses the number of CPUs.
max_workers = 0

# Per-file read timeout in milliseconds; 0 disables it.
file_timeout_ms = 0

# Maximum files read per second; 0 is unlimited.
read_rate = 0.0

[output]
# One of: text, json, yaml, csv, markdown
format = "text"

# Directory for timestamped report files of non-text formats.
# Empty writes the report to stdout.
directory = ""
`
