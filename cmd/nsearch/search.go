package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ndaniels/nsearch"
	"github.com/ndaniels/nsearch/alnout"
	"github.com/ndaniels/nsearch/queue"
)

// numQueriesPerWorkItem batches queries into work items, following
// original_source's Search.cpp numQueriesPerWorkItem constant.
const numQueriesPerWorkItem = 50

func init() {
	searchCmd := &cobra.Command{
		Use:   "search (dna|protein)",
		Short: "search queries against a reference database",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().String("query", "", "query FASTA file")
	searchCmd.Flags().String("database", "", "reference FASTA file")
	searchCmd.Flags().String("out", "", "alnout output file")
	searchCmd.Flags().Float64("minidentity", 0, "minimum identity threshold, e.g. 0.8")
	searchCmd.Flags().Int("maxaccepts", 1, "maximum successful hits reported per query")
	searchCmd.Flags().Int("maxrejects", 8, "abort after this many rejected candidates")
	searchCmd.Flags().Int("threads", runtime.NumCPU(), "number of concurrent search engines")
	for _, name := range []string{"query", "database", "out", "minidentity"} {
		_ = searchCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	queryPath, _ := cmd.Flags().GetString("query")
	dbPath, _ := cmd.Flags().GetString("database")
	outPath, _ := cmd.Flags().GetString("out")
	minIdentity, _ := cmd.Flags().GetFloat64("minidentity")
	maxAccepts, _ := cmd.Flags().GetInt("maxaccepts")
	maxRejects, _ := cmd.Flags().GetInt("maxrejects")
	threads, _ := cmd.Flags().GetInt("threads")

	template, coreAlphabet, err := moleculeAlphabets(args[0])
	if err != nil {
		return err
	}

	nsearch.Verbose = true
	progress := nsearch.NewProgressReporter()
	const (
		stageReadDB = iota
		stageStatsDB
		stageIndexDB
		stageReadQuery
		stageSearch
		stageWrite
	)
	progress.Add(stageReadDB, "Reading database").
		Add(stageStatsDB, "Analyzing database sequences").
		Add(stageIndexDB, "Indexing database").
		Add(stageReadQuery, "Reading queries").
		Add(stageSearch, "Searching").
		Add(stageWrite, "Writing hits")

	log.Infof("reading database file %s", dbPath)
	progress.Activate(stageReadDB)
	dbSequences, err := readFastaFile(dbPath, template, func(n int) {
		progress.Set(stageReadDB, uint64(n), uint64(n))
	})
	if err != nil {
		return err
	}
	log.Infof("%d database sequences loaded", len(dbSequences))

	conf := nsearch.DefaultDNAConf
	conf.MaxAccepts = maxAccepts
	conf.MaxRejects = maxRejects

	db, err := nsearch.NewDatabase(coreAlphabet, conf.KmerLength, dbSequences, func(kind nsearch.ProgressKind, processed, total int) {
		stage := stageIndexDB
		if kind == nsearch.StatsCollection {
			stage = stageStatsDB
		}
		progress.Activate(stage).Set(stage, uint64(processed), uint64(total))
	})
	if err != nil {
		return err
	}
	log.Infof("database indexed, k-mer length %d", conf.KmerLength)

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	writer := alnout.NewWriter(out)

	var writeErrMu sync.Mutex
	var writeErr error

	writerQueue := queue.New(1, 64, func() func([]nsearch.Hit) {
		return func(hits []nsearch.Hit) {
			for _, h := range hits {
				if err := writer.WriteHit(h); err != nil {
					writeErrMu.Lock()
					if writeErr == nil {
						writeErr = err
						log.Errorf("writing hit for query %q: %v", h.Query.Identifier, err)
					}
					writeErrMu.Unlock()
					return
				}
			}
		}
	}, func(processed, enqueued int) {
		progress.Set(stageWrite, uint64(processed), uint64(enqueued))
	})

	searchQueue := queue.New(threads, threads*2, func() func([]nsearch.Sequence) {
		engine := nsearch.NewEngine(coreAlphabet, conf)
		return func(batch []nsearch.Sequence) {
			var hits []nsearch.Hit
			for _, query := range batch {
				hits = append(hits, engine.Query(db, query, minIdentity)...)
			}
			if len(hits) > 0 {
				writerQueue.Enqueue(hits)
			}
		}
	}, func(processed, enqueued int) {
		progress.Set(stageSearch, uint64(processed), uint64(enqueued))
	})

	log.Infof("reading query file %s", queryPath)
	progress.Activate(stageReadQuery)
	queries, err := readFastaFile(queryPath, template, func(n int) {
		progress.Set(stageReadQuery, uint64(n), uint64(n))
	})
	if err != nil {
		return err
	}
	log.Infof("%d queries loaded, searching with %d threads", len(queries), threads)

	progress.Activate(stageSearch)
	batch := make([]nsearch.Sequence, 0, numQueriesPerWorkItem)
	for _, q := range queries {
		batch = append(batch, q)
		if len(batch) == numQueriesPerWorkItem {
			searchQueue.Enqueue(batch)
			batch = make([]nsearch.Sequence, 0, numQueriesPerWorkItem)
		}
	}
	if len(batch) > 0 {
		searchQueue.Enqueue(batch)
	}
	searchQueue.WaitTillDone()

	progress.Activate(stageWrite)
	writerQueue.WaitTillDone()
	progress.Done(stageWrite)

	writeErrMu.Lock()
	err = writeErr
	writeErrMu.Unlock()
	if err != nil {
		return fmt.Errorf("writing alnout output: %w", err)
	}

	log.Infof("search complete, hits written to %s", outPath)
	return writer.Flush()
}
