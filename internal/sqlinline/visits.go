package sqlinline

// QRecordVisit appends the raw event and bumps the daily bucket in one
// statement. $4 is the bucket key (YYYY-MM-DD in the reference timezone).
const QRecordVisit = `--sql 49d37ab4-e73b-4277-886b-81bfd17eb390
with appended as (
    insert into visit_events (id, page, country, visited_at)
    values ($1::uuid, $2::text, nullif($3::text, ''), $5::timestamptz)
    returning id
)
insert into visit_daily (day, total, updated_at)
select $4::date, 1, now()
from appended
on conflict (day) do update set
    total = visit_daily.total + 1,
    updated_at = now()
returning total;
`

const QDailyVisitCounts = `--sql 6107ca06-56af-482d-a100-d77801a80067
select day::text, total
from visit_daily
where day between $1::date and $2::date
order by day asc;
`

// QPurgeVisits removes events before $1 and buckets before $2; rows on the
// cutoff day itself are kept.
const QPurgeVisits = `--sql f46d5fff-6b04-4f1b-b3e9-8cf03e8ca1ce
with purged_events as (
    delete from visit_events
    where visited_at < $1::timestamptz
    returning 1
),
purged_days as (
    delete from visit_daily
    where day < $2::date
    returning 1
)
select
    (select count(*) from purged_events),
    (select count(*) from purged_days);
`
