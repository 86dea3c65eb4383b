// Command topicstab 评估 topic model 集成的稳定性与准确率。
//
//	topicstab term-stability models/base/ -t 10 -o ats.csv
//	topicstab term-difference models/base/ranks*.gob
//	topicstab partition-stability models/base/ --hist pnmi-hist.csv
//	topicstab partition-accuracy corpus.gob models/base/ --measures nmi,ami,ari
//	topicstab parse data/sample-text/ -o corpus.gob
//	topicstab generate corpus.gob -k 4 -r 30 -o models/base
//	topicstab runs show --kind ats --store redis://localhost:6379/0
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
