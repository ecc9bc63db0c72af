package sqlinline

const QCreateTemplatesTable = `--sql 3f1c9a42-5b7e-4d2a-9c61-0e8f2b7d4a15
create table if not exists fakepost_templates (
    slot text primary key,
    version int not null,
    body jsonb not null,
    updated_at timestamptz not null default now()
);
`

// QUpsertTemplate stores the whole envelope in body.
const QUpsertTemplate = `--sql b62e7d10-8a4f-4c3b-a5d9-71c0e4f2a806
insert into fakepost_templates (slot, version, body, updated_at)
values ($1::text, $2::int, $3::jsonb, now())
on conflict (slot) do update set
    version = excluded.version,
    body = excluded.body,
    updated_at = now();
`

const QSelectTemplate = `--sql 9d47a3e8-1c25-4f6b-8e0a-5b3c9d7f2e41
select body::text
from fakepost_templates
where slot = $1::text
limit 1;
`
