/*
Package status tracks per-file migration results and owns file I/O.

	+-------------+     +--------------+
	|   Manager   |     |    Report    |
	| read/write  |     | FileRecords  |
	+------+------+     +------+-------+
	       |                   |
	       v                   v
	  atomic rename      counts, tallies,
	  over original      formatted lines

🎯 Purpose:
- Read and write whole files, never leaving a half-written original
- Record each file's stage, status and problems
- Summarise a run as changed / unchanged / missing / failed

⚡ Statuses:
- changed: rules or imports altered the content
- unchanged: nothing matched; the file is not written
- missing: the path does not exist (reported, run continues)
- failed: write or idempotency verification failed for that file
*/
package status
