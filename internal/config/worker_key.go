package config

type WorkerKeyStruct struct {
	PersistResultsQueue string
	PersistAnswersQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistResultsQueue: "persist_results_queue",
	PersistAnswersQueue: "persist_answers_queue",
}
