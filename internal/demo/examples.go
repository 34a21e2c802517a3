package demo

import (
	"context"

	"github.com/xinjiayu/rxcore"
)

var registry = []Example{
	{Name: "just", run: exampleJust},
	{Name: "of", run: exampleOf},
	{Name: "create", run: exampleCreate},
	{Name: "disposable", run: exampleDisposable},
	{Name: "dispose", run: exampleDispose},
	{Name: "disposeBag", run: exampleDisposeBag},
	{Name: "takeUntil", run: exampleTakeUntil},
	{Name: "filter", run: exampleFilter},
	{Name: "map", run: exampleMap},
	{Name: "merge", run: exampleMerge},
	{Name: "publishSubject", run: examplePublishSubject},
	{Name: "behaviorSubject", run: exampleBehaviorSubject},
	{Name: "replaySubject", run: exampleReplaySubject},
	{Name: "variable", run: exampleVariable},
}

// events prints every event with an optional prefix.
func (p *printer) events(prefix string) rxcore.Observer {
	return func(item rxcore.Item) {
		p.line("%s%s", prefix, item)
	}
}

// values prints only the values with an optional prefix.
func (p *printer) values(prefix string) rxcore.OnNext {
	return func(v interface{}) {
		p.line("%s%v", prefix, v)
	}
}

func exampleJust(_ context.Context, p *printer, _ Options) error {
	rxcore.Just("Hello, RxSwift!").Subscribe(p.events(""))
	return nil
}

func exampleOf(_ context.Context, p *printer, _ Options) error {
	rxcore.Of(1, 2, 3, 4, 5).Subscribe(p.events(""))
	return nil
}

func exampleCreate(_ context.Context, p *printer, _ Options) error {
	items := []interface{}{1, 2, 3, 4, 5}
	rxcore.FromSlice(items).SubscribeWith(rxcore.Callbacks{
		OnNext:     p.values(""),
		OnError:    func(error) { p.line("Error") },
		OnComplete: func() { p.line("Done") },
		OnDisposed: func() { p.line("Disposed") },
	})
	return nil
}

func exampleDisposable(_ context.Context, p *printer, _ Options) error {
	sequence := []interface{}{1, 2, 3}
	rxcore.FromSlice(sequence).Subscribe(p.events(""))
	return nil
}

func exampleDispose(_ context.Context, p *printer, _ Options) error {
	sequence := []interface{}{1, 2, 3}
	rxcore.FromSlice(sequence).Subscribe(p.events("")).Dispose()
	return nil
}

func exampleDisposeBag(_ context.Context, p *printer, _ Options) error {
	sequence := []interface{}{1, 2, 3}
	bag := rxcore.NewCompositeDisposable()
	defer bag.Dispose()

	bag.Add(rxcore.FromSlice(sequence).Subscribe(p.events("")))
	return nil
}

func exampleTakeUntil(ctx context.Context, p *printer, opts Options) error {
	loop := rxcore.NewRunLoop()
	stop := rxcore.Just(1).DelaySubscription(opts.TakeUntilDelay, loop)
	seq := rxcore.FromSlice([]interface{}{1, 2, 3}).TakeUntil(stop)

	bag := rxcore.NewCompositeDisposable()
	defer bag.Dispose()
	bag.Add(seq.Subscribe(p.events("")))

	return loop.RunUntilIdle(ctx)
}

func exampleFilter(_ context.Context, p *printer, _ Options) error {
	rxcore.Of(1, 2, 7, 11, 3, 21).
		Filter(func(v interface{}) bool { return v.(int) > 10 }).
		Subscribe(p.events(""))
	return nil
}

func exampleMap(_ context.Context, p *printer, _ Options) error {
	rxcore.Of(1, 2, 3).
		Map(func(v interface{}) (interface{}, error) {
			n := v.(int)
			return n * n, nil
		}).
		Subscribe(p.events(""))
	return nil
}

func exampleMerge(_ context.Context, p *printer, _ Options) error {
	firstSeq := rxcore.Of(1, 2, 3)
	secondSeq := rxcore.Of(10, 20, 30)
	rxcore.FromObservables(firstSeq, secondSeq).MergeAll().Subscribe(p.events(""))
	return nil
}

func examplePublishSubject(_ context.Context, p *printer, _ Options) error {
	bag := rxcore.NewCompositeDisposable()
	defer bag.Dispose()
	subject := rxcore.NewPublishSubject()

	bag.Add(subject.Subscribe(p.events("Subscription first: ")))
	subject.AsObserver()(rxcore.CreateItem("Hello"))
	subject.OnNext("RxSwift")

	bag.Add(subject.SubscribeWithCallbacks(p.values("Subscription second: "), nil, nil))
	subject.OnNext("Wow")
	subject.OnNext("How are you?")

	subject.OnComplete()
	subject.OnNext("I am here")
	return nil
}

func exampleBehaviorSubject(_ context.Context, p *printer, _ Options) error {
	bag := rxcore.NewCompositeDisposable()
	defer bag.Dispose()
	subject := rxcore.NewBehaviorSubject(1)

	bag.Add(subject.SubscribeWithCallbacks(p.values("first: "), nil, nil))
	subject.OnNext(2)
	subject.OnNext(3)

	bag.Add(subject.SubscribeWithCallbacks(p.values("second: "), nil, nil))
	return nil
}

func exampleReplaySubject(_ context.Context, p *printer, opts Options) error {
	bag := rxcore.NewCompositeDisposable()
	defer bag.Dispose()
	subject := rxcore.NewReplaySubject(1)

	bag.Add(subject.SubscribeWithCallbacks(p.values("First subscription: "), nil, nil))
	subject.OnNext("a")
	subject.OnNext("b")

	bag.Add(subject.SubscribeWithCallbacks(p.values("Second subscription: "), nil, nil))
	subject.OnNext("c")
	subject.OnNext("d")

	subject2 := rxcore.NewReplaySubject(opts.ReplayBufferSize)
	for i := 1; i <= 4; i++ {
		subject2.OnNext(i)
	}
	bag.Add(subject2.SubscribeWithCallbacks(p.values(""), nil, nil))
	return nil
}

func exampleVariable(_ context.Context, p *printer, _ Options) error {
	bag := rxcore.NewCompositeDisposable()
	defer bag.Dispose()
	variable := rxcore.NewVariable("A")

	bag.Add(variable.AsObservable().SubscribeWithCallbacks(p.values(""), nil, nil))
	variable.SetValue("B")
	return nil
}
